package azure

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("resource not found")

type Client interface {
	Session
	Reader
	Writer
}

type Session interface {
	WhoAmI(ctx context.Context) (*Account, error)
}

type Reader interface {
	Inventory
	Settings
	Configuration
}

type Inventory interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
	ListPlans(ctx context.Context, subscriptionID SubscriptionId) ([]Plan, error)
	// ListApps lists apps in the subscription. An empty resourceGroup lists across all resource groups.
	ListApps(ctx context.Context, subscriptionID SubscriptionId, resourceGroup string) ([]App, error)
	GetApp(ctx context.Context, ref AppRef) (*App, error)
	GetPlan(ctx context.Context, subscriptionID SubscriptionId, resourceGroup, name string) (*Plan, error)
}

type Settings interface {
	GetAppSettings(ctx context.Context, ref AppRef) (map[string]string, error)
	GetConnectionStrings(ctx context.Context, ref AppRef) (map[string]ConnectionString, error)
	GetGeneralConfig(ctx context.Context, ref AppRef) (*GeneralConfig, error)
}

// Configuration reads the configuration facets that are not covered by a plain settings copy.
type Configuration interface {
	GetCustomDomains(ctx context.Context, ref AppRef) ([]CustomDomain, error)
	GetSSLCertificates(ctx context.Context, ref AppRef) ([]Certificate, error)
	GetManagedIdentity(ctx context.Context, ref AppRef) (*ManagedIdentity, error)
	GetVNetIntegration(ctx context.Context, ref AppRef) (*VNetIntegration, error)
	GetPrivateEndpoints(ctx context.Context, ref AppRef) ([]PrivateEndpoint, error)
	GetHybridConnections(ctx context.Context, ref AppRef) ([]HybridConnection, error)
	GetAuthSettings(ctx context.Context, ref AppRef) (*AuthSettings, error)
	GetCorsSettings(ctx context.Context, ref AppRef) (*CorsSettings, error)
	GetDeploymentSlots(ctx context.Context, ref AppRef) ([]DeploymentSlot, error)
	GetIPRestrictions(ctx context.Context, ref AppRef) ([]IPRestriction, error)
	GetVirtualApplications(ctx context.Context, ref AppRef) ([]VirtualApplication, error)
	GetWebJobs(ctx context.Context, ref AppRef) ([]WebJob, error)
	GetBackupConfig(ctx context.Context, ref AppRef) (*BackupConfig, error)
}

type Writer interface {
	SettingsWriter
	Provisioner
}

// SettingsWriter replaces the full collection on the target app; callers are expected to merge first.
type SettingsWriter interface {
	SetAppSettings(ctx context.Context, ref AppRef, settings map[string]string) error
	SetConnectionStrings(ctx context.Context, ref AppRef, connectionStrings map[string]ConnectionString) error
	SetGeneralConfig(ctx context.Context, ref AppRef, config GeneralConfig) error
}

type Provisioner interface {
	ResourceGroupExists(ctx context.Context, subscriptionID SubscriptionId, name string) (bool, error)
	CreateResourceGroup(ctx context.Context, subscriptionID SubscriptionId, name, location string) error
	CreatePlan(ctx context.Context, spec PlanSpec) (*Plan, error)
	AppExists(ctx context.Context, ref AppRef) (bool, error)
	CreateApp(ctx context.Context, spec AppSpec) (*App, error)
}
