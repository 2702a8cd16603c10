package azure

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AppRef identifies a single App Service app. Every read and write against the
// provider is scoped by an explicit AppRef; there is no ambient subscription.
type AppRef struct {
	SubscriptionID SubscriptionId `json:"subscriptionId"`
	ResourceGroup  string         `json:"resourceGroup"`
	Name           string         `json:"name"`
}

func (a AppRef) String() string {
	return fmt.Sprintf("%s/%s/%s", a.SubscriptionID, a.ResourceGroup, a.Name)
}

func (a AppRef) IsComplete() bool {
	return len(a.SubscriptionID) > 0 && len(a.ResourceGroup) > 0 && len(a.Name) > 0
}

type Account struct {
	TenantID      TenantId  `json:"tenantId"`
	ObjectID      string    `json:"objectId"`
	PrincipalName string    `json:"principalName"`
	ApplicationID string    `json:"applicationId,omitempty"`
	ExpiresOn     time.Time `json:"expiresOn"`
}

type Subscription struct {
	ID    SubscriptionId `json:"id"`
	Name  string         `json:"name"`
	State string         `json:"state"`
}

func (s Subscription) IsEnabled() bool {
	return strings.EqualFold(s.State, "Enabled")
}

type Plan struct {
	ID            ResourceId `json:"id"`
	Name          string     `json:"name"`
	ResourceGroup string     `json:"resourceGroup"`
	Location      string     `json:"location"`
	Kind          string     `json:"kind"`
	Sku           string     `json:"sku"`
	Tier          string     `json:"tier"`
	Reserved      bool       `json:"reserved"`
}

// PlanSpec describes an App Service plan to be created.
type PlanSpec struct {
	SubscriptionID SubscriptionId
	ResourceGroup  string
	Name           string
	Location       string
	Sku            string
	Linux          bool
}

type App struct {
	ID              ResourceId        `json:"id"`
	Name            string            `json:"name"`
	ResourceGroup   string            `json:"resourceGroup"`
	SubscriptionID  SubscriptionId    `json:"subscriptionId"`
	PlanID          ResourceId        `json:"planId"`
	Location        string            `json:"location"`
	Kind            string            `json:"kind"`
	State           string            `json:"state"`
	DefaultHostName HostName          `json:"defaultHostName"`
	HTTPSOnly       bool              `json:"httpsOnly"`
	Tags            map[string]string `json:"tags,omitempty"`
}

func (a App) Ref() AppRef {
	return AppRef{
		SubscriptionID: a.SubscriptionID,
		ResourceGroup:  a.ResourceGroup,
		Name:           a.Name,
	}
}

func (a App) IsLinux() bool {
	return IsLinuxKind(a.Kind)
}

// IsLinuxKind reports whether an App Service kind string (e.g. "app,linux,container") denotes a Linux app.
func IsLinuxKind(kind string) bool {
	for _, part := range strings.Split(strings.ToLower(kind), ",") {
		if strings.TrimSpace(part) == "linux" {
			return true
		}
	}
	return false
}

// AppSpec describes an App Service app to be created.
type AppSpec struct {
	Ref       AppRef
	Location  string
	Kind      string
	PlanID    ResourceId
	HTTPSOnly bool
	Tags      map[string]string
}

type ConnectionString struct {
	Value string               `json:"value"`
	Type  ConnectionStringType `json:"type"`
}

// GeneralConfig is the subset of the site configuration that is copied between apps.
type GeneralConfig struct {
	AlwaysOn              bool   `json:"alwaysOn"`
	HTTP20Enabled         bool   `json:"http20Enabled"`
	MinTLSVersion         string `json:"minTlsVersion"`
	FTPSState             string `json:"ftpsState"`
	WebSocketsEnabled     bool   `json:"webSocketsEnabled"`
	Use32BitWorkerProcess bool   `json:"use32BitWorkerProcess"`
	HealthCheckPath       string `json:"healthCheckPath,omitempty"`
	LinuxFxVersion        string `json:"linuxFxVersion,omitempty"`
	WindowsFxVersion      string `json:"windowsFxVersion,omitempty"`
	NetFrameworkVersion   string `json:"netFrameworkVersion,omitempty"`
	PHPVersion            string `json:"phpVersion,omitempty"`
	PythonVersion         string `json:"pythonVersion,omitempty"`
	NodeVersion           string `json:"nodeVersion,omitempty"`
	JavaVersion           string `json:"javaVersion,omitempty"`
}

// RuntimeStack returns the most specific runtime descriptor configured for the app.
func (g GeneralConfig) RuntimeStack() string {
	switch {
	case len(g.LinuxFxVersion) > 0:
		return g.LinuxFxVersion
	case len(g.WindowsFxVersion) > 0:
		return g.WindowsFxVersion
	case len(g.JavaVersion) > 0:
		return "JAVA|" + g.JavaVersion
	case len(g.PythonVersion) > 0:
		return "PYTHON|" + g.PythonVersion
	case len(g.NodeVersion) > 0:
		return "NODE|" + g.NodeVersion
	case len(g.PHPVersion) > 0:
		return "PHP|" + g.PHPVersion
	case len(g.NetFrameworkVersion) > 0:
		return "DOTNET|" + g.NetFrameworkVersion
	}
	return ""
}

type CustomDomain struct {
	HostName   HostName `json:"hostName"`
	SSLState   SSLState `json:"sslState"`
	Thumbprint string   `json:"thumbprint,omitempty"`
}

func (d CustomDomain) HasSSL() bool {
	return d.SSLState == SSLStateSniEnabled || d.SSLState == SSLStateIPBasedEnabled
}

type Certificate struct {
	Name           string     `json:"name"`
	Thumbprint     string     `json:"thumbprint"`
	SubjectName    string     `json:"subjectName"`
	HostNames      []HostName `json:"hostNames,omitempty"`
	ExpirationDate time.Time  `json:"expirationDate"`
	KeyVaultID     ResourceId `json:"keyVaultId,omitempty"`
}

func (c Certificate) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !c.ExpirationDate.IsZero() && c.ExpirationDate.Before(now.Add(d))
}

type ManagedIdentity struct {
	SystemAssigned bool   `json:"systemAssigned"`
	PrincipalID    string `json:"principalId,omitempty"`
	// UserAssigned is keyed by identity name.
	UserAssigned map[string]UserAssignedIdentity `json:"userAssigned,omitempty"`
}

func (m ManagedIdentity) IsEnabled() bool {
	return m.SystemAssigned || len(m.UserAssigned) > 0
}

type UserAssignedIdentity struct {
	ID          ResourceId `json:"id"`
	ClientID    string     `json:"clientId"`
	PrincipalID string     `json:"principalId"`
}

type VNetIntegration struct {
	SubnetID      ResourceId `json:"subnetId,omitempty"`
	VNetName      string     `json:"vnetName,omitempty"`
	SubnetName    string     `json:"subnetName,omitempty"`
	AddressPrefix string     `json:"addressPrefix,omitempty"`
	RouteAll      bool       `json:"routeAll"`
}

func (v VNetIntegration) IsEnabled() bool {
	return len(v.SubnetID) > 0
}

type PrivateEndpoint struct {
	Name              string     `json:"name"`
	PrivateEndpointID ResourceId `json:"privateEndpointId"`
	Status            string     `json:"status"`
}

type HybridConnection struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	HostName  HostName `json:"hostName"`
	Port      int32    `json:"port"`
}

type AuthSettings struct {
	Enabled                     bool   `json:"enabled"`
	DefaultProvider             string `json:"defaultProvider,omitempty"`
	UnauthenticatedClientAction string `json:"unauthenticatedClientAction,omitempty"`
	ClientID                    string `json:"clientId,omitempty"`
	Issuer                      string `json:"issuer,omitempty"`
}

type CorsSettings struct {
	AllowedOrigins     []string `json:"allowedOrigins,omitempty"`
	SupportCredentials bool     `json:"supportCredentials"`
}

type DeploymentSlot struct {
	Name            string   `json:"name"`
	State           string   `json:"state"`
	DefaultHostName HostName `json:"defaultHostName"`
}

type IPRestriction struct {
	Name      string `json:"name"`
	Action    string `json:"action"`
	IPAddress string `json:"ipAddress"`
	Priority  int32  `json:"priority"`
	Tag       string `json:"tag,omitempty"`
	// SCM is true for restrictions guarding the Kudu/SCM site.
	SCM bool `json:"scm"`
}

// IsPlatformDefault reports the "Allow all" rule the platform lists on apps without access restrictions.
func (r IPRestriction) IsPlatformDefault() bool {
	return strings.EqualFold(r.Action, "Allow") &&
		strings.EqualFold(r.IPAddress, "Any") &&
		r.Priority == math.MaxInt32
}

type VirtualApplication struct {
	VirtualPath    string `json:"virtualPath"`
	PhysicalPath   string `json:"physicalPath"`
	PreloadEnabled bool   `json:"preloadEnabled"`
}

type WebJob struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type BackupConfig struct {
	Enabled               bool   `json:"enabled"`
	FrequencyInterval     int32  `json:"frequencyInterval,omitempty"`
	FrequencyUnit         string `json:"frequencyUnit,omitempty"`
	RetentionPeriodInDays int32  `json:"retentionPeriodInDays,omitempty"`
}
