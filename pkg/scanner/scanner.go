package scanner

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

// CertificateExpiryWarning is how far ahead an expiring certificate is reported.
const CertificateExpiryWarning = 30 * 24 * time.Hour

const (
	FacetCustomDomains       = "Custom Domains"
	FacetSSLCertificates     = "SSL Certificates"
	FacetManagedIdentity     = "Managed Identity"
	FacetVNetIntegration     = "VNet Integration"
	FacetPrivateEndpoints    = "Private Endpoints"
	FacetHybridConnections   = "Hybrid Connections"
	FacetAuthentication      = "Authentication"
	FacetCORS                = "CORS"
	FacetDeploymentSlots     = "Deployment Slots"
	FacetWebJobs             = "WebJobs"
	FacetBackup              = "Backup"
	FacetIPRestrictions      = "IP Restrictions"
	FacetVirtualApplications = "Virtual Applications"
)

// AppConfiguration is the post-creation configuration of one app that a settings copy does not carry over.
type AppConfiguration struct {
	App                 azure.AppRef               `json:"app"`
	CustomDomains       []azure.CustomDomain       `json:"customDomains"`
	SSLCertificates     []azure.Certificate        `json:"sslCertificates"`
	ManagedIdentity     azure.ManagedIdentity      `json:"managedIdentity"`
	VNetIntegration     azure.VNetIntegration      `json:"vnetIntegration"`
	PrivateEndpoints    []azure.PrivateEndpoint    `json:"privateEndpoints"`
	HybridConnections   []azure.HybridConnection   `json:"hybridConnections"`
	AuthSettings        azure.AuthSettings         `json:"authSettings"`
	Cors                azure.CorsSettings         `json:"cors"`
	DeploymentSlots     []azure.DeploymentSlot     `json:"deploymentSlots"`
	WebJobs             []azure.WebJob             `json:"webJobs"`
	Backup              azure.BackupConfig         `json:"backup"`
	IPRestrictions      []azure.IPRestriction      `json:"ipRestrictions"`
	VirtualApplications []azure.VirtualApplication `json:"virtualApplications"`
	HasConfiguration    bool                       `json:"hasConfiguration"`
	Warnings            []string                   `json:"warnings"`
}

type Scanner struct {
	reader azure.Configuration
	now    func() time.Time
}

func New(reader azure.Configuration) Scanner {
	return Scanner{reader: reader, now: time.Now}
}

// WithClock replaces the clock used for certificate expiry checks.
func (s Scanner) WithClock(now func() time.Time) Scanner {
	s.now = now
	return s
}

// Scan reads every facet independently. A failed read leaves the facet empty and adds a warning.
func (s Scanner) Scan(tx transaction.Transaction, ref azure.AppRef) AppConfiguration {
	cfg := AppConfiguration{
		App:      ref,
		Warnings: make([]string, 0),
	}
	warn := func(facet string, err error) {
		tx.Logger.Warnf("reading %s: %v", strings.ToLower(facet), err)
		metrics.IncReadFailure(facet)
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: could not be read: %v", facet, err))
	}

	cfg.CustomDomains = list(tx.Ctx, ref, FacetCustomDomains, s.reader.GetCustomDomains, warn)
	cfg.SSLCertificates = list(tx.Ctx, ref, FacetSSLCertificates, s.reader.GetSSLCertificates, warn)
	cfg.ManagedIdentity = single(tx.Ctx, ref, FacetManagedIdentity, s.reader.GetManagedIdentity, warn)
	cfg.VNetIntegration = single(tx.Ctx, ref, FacetVNetIntegration, s.reader.GetVNetIntegration, warn)
	cfg.PrivateEndpoints = list(tx.Ctx, ref, FacetPrivateEndpoints, s.reader.GetPrivateEndpoints, warn)
	cfg.HybridConnections = list(tx.Ctx, ref, FacetHybridConnections, s.reader.GetHybridConnections, warn)
	cfg.AuthSettings = single(tx.Ctx, ref, FacetAuthentication, s.reader.GetAuthSettings, warn)
	cfg.Cors = single(tx.Ctx, ref, FacetCORS, s.reader.GetCorsSettings, warn)
	cfg.DeploymentSlots = list(tx.Ctx, ref, FacetDeploymentSlots, s.reader.GetDeploymentSlots, warn)
	cfg.WebJobs = list(tx.Ctx, ref, FacetWebJobs, s.reader.GetWebJobs, warn)
	cfg.Backup = single(tx.Ctx, ref, FacetBackup, s.reader.GetBackupConfig, warn)
	rules := list(tx.Ctx, ref, FacetIPRestrictions, s.reader.GetIPRestrictions, warn)
	cfg.IPRestrictions = slices.DeleteFunc(rules, azure.IPRestriction.IsPlatformDefault)
	cfg.VirtualApplications = list(tx.Ctx, ref, FacetVirtualApplications, s.reader.GetVirtualApplications, warn)

	for _, cert := range cfg.SSLCertificates {
		if cert.ExpiresWithin(s.now(), CertificateExpiryWarning) {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: certificate '%s' (%s) expires %s", FacetSSLCertificates, cert.SubjectName, cert.Thumbprint, cert.ExpirationDate.Format(time.DateOnly)))
		}
	}
	for _, domain := range cfg.CustomDomains {
		if !domain.HasSSL() {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: '%s' has no SSL binding", FacetCustomDomains, domain.HostName))
		}
	}

	cfg.HasConfiguration = cfg.hasConfiguration()
	metrics.IncApp(tx.Command)
	return cfg
}

// ScanAll scans the given apps in order.
func (s Scanner) ScanAll(tx transaction.Transaction, refs []azure.AppRef) []AppConfiguration {
	result := make([]AppConfiguration, 0, len(refs))
	for _, ref := range refs {
		appTx := tx.ForApp(ref)
		appTx.Logger.Info("scanning configuration")
		result = append(result, s.Scan(appTx, ref))
	}
	return result
}

func (c AppConfiguration) hasConfiguration() bool {
	return len(c.CustomDomains) > 0 ||
		len(c.SSLCertificates) > 0 ||
		c.ManagedIdentity.IsEnabled() ||
		c.VNetIntegration.IsEnabled() ||
		len(c.PrivateEndpoints) > 0 ||
		len(c.HybridConnections) > 0 ||
		c.AuthSettings.Enabled ||
		len(c.Cors.AllowedOrigins) > 0 ||
		len(c.DeploymentSlots) > 0 ||
		len(c.WebJobs) > 0 ||
		c.Backup.Enabled ||
		len(c.IPRestrictions) > 0 ||
		c.hasCustomVirtualApplications()
}

// hasCustomVirtualApplications ignores the root application every Windows app gets by default.
func (c AppConfiguration) hasCustomVirtualApplications() bool {
	for _, va := range c.VirtualApplications {
		if va.VirtualPath != "/" || !strings.EqualFold(va.PhysicalPath, `site\wwwroot`) {
			return true
		}
	}
	return false
}

func list[T any](ctx context.Context, ref azure.AppRef, facet string, read func(context.Context, azure.AppRef) ([]T, error), warn func(string, error)) []T {
	items, err := read(ctx, ref)
	if err != nil {
		warn(facet, err)
		return make([]T, 0)
	}
	if items == nil {
		return make([]T, 0)
	}
	return items
}

func single[T any](ctx context.Context, ref azure.AppRef, facet string, read func(context.Context, azure.AppRef) (*T, error), warn func(string, error)) T {
	var zero T
	item, err := read(ctx, ref)
	if err != nil {
		warn(facet, err)
		return zero
	}
	if item == nil {
		return zero
	}
	return *item
}
