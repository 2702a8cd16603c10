package fake

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
)

const (
	TenantId      = "11111111-1111-1111-1111-111111111111"
	PrincipalName = "migrator@example.com"
)

// AppState is everything the fake knows about a single app.
type AppState struct {
	App                 azure.App
	AppSettings         map[string]string
	ConnectionStrings   map[string]azure.ConnectionString
	GeneralConfig       azure.GeneralConfig
	CustomDomains       []azure.CustomDomain
	Certificates        []azure.Certificate
	ManagedIdentity     azure.ManagedIdentity
	VNetIntegration     azure.VNetIntegration
	PrivateEndpoints    []azure.PrivateEndpoint
	HybridConnections   []azure.HybridConnection
	AuthSettings        azure.AuthSettings
	Cors                azure.CorsSettings
	Slots               []azure.DeploymentSlot
	IPRestrictions      []azure.IPRestriction
	VirtualApplications []azure.VirtualApplication
	WebJobs             []azure.WebJob
	Backup              azure.BackupConfig
}

// Client is an in-memory azure.Client. Writes mutate state and are recorded in Calls.
type Client struct {
	Subscriptions  []azure.Subscription
	Plans          map[azure.SubscriptionId][]azure.Plan
	ResourceGroups map[string]bool
	Apps           map[azure.AppRef]*AppState

	// Errors makes the named method fail, e.g. Errors["GetAppSettings"] or Errors["CreateApp:app-name"].
	Errors map[string]error
	// Calls records every write in order, e.g. "CreateApp:sub/rg/name".
	Calls []string
}

var _ azure.Client = &Client{}

func NewClient() *Client {
	return &Client{
		Plans:          make(map[azure.SubscriptionId][]azure.Plan),
		ResourceGroups: make(map[string]bool),
		Apps:           make(map[azure.AppRef]*AppState),
		Errors:         make(map[string]error),
	}
}

// AddApp registers an app and returns its mutable state.
func (c *Client) AddApp(ref azure.AppRef) *AppState {
	state := &AppState{
		App: azure.App{
			ID:              resource.AppID(ref),
			Name:            ref.Name,
			ResourceGroup:   ref.ResourceGroup,
			SubscriptionID:  ref.SubscriptionID,
			Location:        "westeurope",
			Kind:            "app",
			State:           "Running",
			DefaultHostName: ref.Name + ".azurewebsites.net",
		},
		AppSettings:       make(map[string]string),
		ConnectionStrings: make(map[string]azure.ConnectionString),
	}
	c.Apps[ref] = state
	c.ResourceGroups[rgKey(ref.SubscriptionID, ref.ResourceGroup)] = true
	return state
}

// Writes returns the recorded write calls.
func (c *Client) Writes() []string {
	return c.Calls
}

func (c *Client) WhoAmI(context.Context) (*azure.Account, error) {
	if err := c.err("WhoAmI", ""); err != nil {
		return nil, err
	}
	return &azure.Account{
		TenantID:      TenantId,
		ObjectID:      "22222222-2222-2222-2222-222222222222",
		PrincipalName: PrincipalName,
		ExpiresOn:     time.Now().Add(time.Hour),
	}, nil
}

func (c *Client) ListSubscriptions(context.Context) ([]azure.Subscription, error) {
	if err := c.err("ListSubscriptions", ""); err != nil {
		return nil, err
	}
	return slices.Clone(c.Subscriptions), nil
}

func (c *Client) ListPlans(_ context.Context, subscriptionID azure.SubscriptionId) ([]azure.Plan, error) {
	if err := c.err("ListPlans", subscriptionID); err != nil {
		return nil, err
	}
	return slices.Clone(c.Plans[subscriptionID]), nil
}

func (c *Client) ListApps(_ context.Context, subscriptionID azure.SubscriptionId, resourceGroup string) ([]azure.App, error) {
	if err := c.err("ListApps", subscriptionID); err != nil {
		return nil, err
	}

	apps := make([]azure.App, 0)
	for ref, state := range c.Apps {
		if ref.SubscriptionID != subscriptionID {
			continue
		}
		if len(resourceGroup) > 0 && !strings.EqualFold(ref.ResourceGroup, resourceGroup) {
			continue
		}
		apps = append(apps, state.App)
	}
	slices.SortFunc(apps, func(a, b azure.App) int {
		return strings.Compare(a.ResourceGroup+"/"+a.Name, b.ResourceGroup+"/"+b.Name)
	})
	return apps, nil
}

func (c *Client) GetApp(_ context.Context, ref azure.AppRef) (*azure.App, error) {
	state, err := c.state("GetApp", ref)
	if err != nil {
		return nil, err
	}
	app := state.App
	return &app, nil
}

func (c *Client) GetPlan(_ context.Context, subscriptionID azure.SubscriptionId, resourceGroup, name string) (*azure.Plan, error) {
	if err := c.err("GetPlan", name); err != nil {
		return nil, err
	}
	for _, plan := range c.Plans[subscriptionID] {
		if strings.EqualFold(plan.ResourceGroup, resourceGroup) && strings.EqualFold(plan.Name, name) {
			p := plan
			return &p, nil
		}
	}
	return nil, fmt.Errorf("plan %s/%s: %w", resourceGroup, name, azure.ErrNotFound)
}

func (c *Client) GetAppSettings(_ context.Context, ref azure.AppRef) (map[string]string, error) {
	state, err := c.state("GetAppSettings", ref)
	if err != nil {
		return nil, err
	}
	return maps.Clone(state.AppSettings), nil
}

func (c *Client) GetConnectionStrings(_ context.Context, ref azure.AppRef) (map[string]azure.ConnectionString, error) {
	state, err := c.state("GetConnectionStrings", ref)
	if err != nil {
		return nil, err
	}
	return maps.Clone(state.ConnectionStrings), nil
}

func (c *Client) GetGeneralConfig(_ context.Context, ref azure.AppRef) (*azure.GeneralConfig, error) {
	state, err := c.state("GetGeneralConfig", ref)
	if err != nil {
		return nil, err
	}
	cfg := state.GeneralConfig
	return &cfg, nil
}

func (c *Client) GetCustomDomains(_ context.Context, ref azure.AppRef) ([]azure.CustomDomain, error) {
	state, err := c.state("GetCustomDomains", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.CustomDomains), nil
}

func (c *Client) GetSSLCertificates(_ context.Context, ref azure.AppRef) ([]azure.Certificate, error) {
	state, err := c.state("GetSSLCertificates", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.Certificates), nil
}

func (c *Client) GetManagedIdentity(_ context.Context, ref azure.AppRef) (*azure.ManagedIdentity, error) {
	state, err := c.state("GetManagedIdentity", ref)
	if err != nil {
		return nil, err
	}
	identity := state.ManagedIdentity
	identity.UserAssigned = maps.Clone(identity.UserAssigned)
	return &identity, nil
}

func (c *Client) GetVNetIntegration(_ context.Context, ref azure.AppRef) (*azure.VNetIntegration, error) {
	state, err := c.state("GetVNetIntegration", ref)
	if err != nil {
		return nil, err
	}
	vnet := state.VNetIntegration
	return &vnet, nil
}

func (c *Client) GetPrivateEndpoints(_ context.Context, ref azure.AppRef) ([]azure.PrivateEndpoint, error) {
	state, err := c.state("GetPrivateEndpoints", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.PrivateEndpoints), nil
}

func (c *Client) GetHybridConnections(_ context.Context, ref azure.AppRef) ([]azure.HybridConnection, error) {
	state, err := c.state("GetHybridConnections", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.HybridConnections), nil
}

func (c *Client) GetAuthSettings(_ context.Context, ref azure.AppRef) (*azure.AuthSettings, error) {
	state, err := c.state("GetAuthSettings", ref)
	if err != nil {
		return nil, err
	}
	auth := state.AuthSettings
	return &auth, nil
}

func (c *Client) GetCorsSettings(_ context.Context, ref azure.AppRef) (*azure.CorsSettings, error) {
	state, err := c.state("GetCorsSettings", ref)
	if err != nil {
		return nil, err
	}
	cors := state.Cors
	cors.AllowedOrigins = slices.Clone(cors.AllowedOrigins)
	return &cors, nil
}

func (c *Client) GetDeploymentSlots(_ context.Context, ref azure.AppRef) ([]azure.DeploymentSlot, error) {
	state, err := c.state("GetDeploymentSlots", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.Slots), nil
}

func (c *Client) GetIPRestrictions(_ context.Context, ref azure.AppRef) ([]azure.IPRestriction, error) {
	state, err := c.state("GetIPRestrictions", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.IPRestrictions), nil
}

func (c *Client) GetVirtualApplications(_ context.Context, ref azure.AppRef) ([]azure.VirtualApplication, error) {
	state, err := c.state("GetVirtualApplications", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.VirtualApplications), nil
}

func (c *Client) GetWebJobs(_ context.Context, ref azure.AppRef) ([]azure.WebJob, error) {
	state, err := c.state("GetWebJobs", ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(state.WebJobs), nil
}

func (c *Client) GetBackupConfig(_ context.Context, ref azure.AppRef) (*azure.BackupConfig, error) {
	state, err := c.state("GetBackupConfig", ref)
	if err != nil {
		return nil, err
	}
	backup := state.Backup
	return &backup, nil
}

func (c *Client) SetAppSettings(_ context.Context, ref azure.AppRef, settings map[string]string) error {
	state, err := c.write("SetAppSettings", ref)
	if err != nil {
		return err
	}
	state.AppSettings = maps.Clone(settings)
	return nil
}

func (c *Client) SetConnectionStrings(_ context.Context, ref azure.AppRef, connectionStrings map[string]azure.ConnectionString) error {
	state, err := c.write("SetConnectionStrings", ref)
	if err != nil {
		return err
	}
	state.ConnectionStrings = maps.Clone(connectionStrings)
	return nil
}

func (c *Client) SetGeneralConfig(_ context.Context, ref azure.AppRef, config azure.GeneralConfig) error {
	state, err := c.write("SetGeneralConfig", ref)
	if err != nil {
		return err
	}
	state.GeneralConfig = config
	return nil
}

func (c *Client) ResourceGroupExists(_ context.Context, subscriptionID azure.SubscriptionId, name string) (bool, error) {
	if err := c.err("ResourceGroupExists", name); err != nil {
		return false, err
	}
	return c.ResourceGroups[rgKey(subscriptionID, name)], nil
}

func (c *Client) CreateResourceGroup(_ context.Context, subscriptionID azure.SubscriptionId, name, location string) error {
	c.Calls = append(c.Calls, fmt.Sprintf("CreateResourceGroup:%s/%s", subscriptionID, name))
	if err := c.err("CreateResourceGroup", name); err != nil {
		return err
	}
	c.ResourceGroups[rgKey(subscriptionID, name)] = true
	return nil
}

func (c *Client) CreatePlan(_ context.Context, spec azure.PlanSpec) (*azure.Plan, error) {
	c.Calls = append(c.Calls, fmt.Sprintf("CreatePlan:%s/%s/%s", spec.SubscriptionID, spec.ResourceGroup, spec.Name))
	if err := c.err("CreatePlan", spec.Name); err != nil {
		return nil, err
	}
	plan := azure.Plan{
		ID:            resource.PlanID(spec.SubscriptionID, spec.ResourceGroup, spec.Name),
		Name:          spec.Name,
		ResourceGroup: spec.ResourceGroup,
		Location:      spec.Location,
		Sku:           spec.Sku,
		Reserved:      spec.Linux,
	}
	c.Plans[spec.SubscriptionID] = append(c.Plans[spec.SubscriptionID], plan)
	return &plan, nil
}

func (c *Client) AppExists(_ context.Context, ref azure.AppRef) (bool, error) {
	if err := c.err("AppExists", ref.Name); err != nil {
		return false, err
	}
	_, found := c.Apps[ref]
	return found, nil
}

func (c *Client) CreateApp(_ context.Context, spec azure.AppSpec) (*azure.App, error) {
	c.Calls = append(c.Calls, "CreateApp:"+spec.Ref.String())
	if err := c.err("CreateApp", spec.Ref.Name); err != nil {
		return nil, err
	}
	state := c.AddApp(spec.Ref)
	state.App.Location = spec.Location
	state.App.Kind = spec.Kind
	state.App.PlanID = spec.PlanID
	state.App.HTTPSOnly = spec.HTTPSOnly
	state.App.Tags = maps.Clone(spec.Tags)
	app := state.App
	return &app, nil
}

func (c *Client) write(method string, ref azure.AppRef) (*AppState, error) {
	c.Calls = append(c.Calls, method+":"+ref.String())
	return c.state(method, ref)
}

func (c *Client) state(method string, ref azure.AppRef) (*AppState, error) {
	if err := c.err(method, ref.Name); err != nil {
		return nil, err
	}
	state, found := c.Apps[ref]
	if !found {
		return nil, fmt.Errorf("app %s: %w", ref, azure.ErrNotFound)
	}
	return state, nil
}

// err looks up a configured failure, first scoped to the given key and then for the method as a whole.
func (c *Client) err(method, key string) error {
	if len(key) > 0 {
		if err, found := c.Errors[method+":"+key]; found {
			return err
		}
	}
	return c.Errors[method]
}

func rgKey(subscriptionID azure.SubscriptionId, name string) string {
	return strings.ToLower(subscriptionID + "/" + name)
}
