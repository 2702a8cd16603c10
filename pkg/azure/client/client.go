package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/asaskevich/govalidator"
	log "github.com/sirupsen/logrus"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/config"
)

const applicationID = "appsvcmigrator"

type client struct {
	tenant     string
	credential azcore.TokenCredential
	options    *arm.ClientOptions
}

var _ azure.Client = client{}

// New signs in to the configured tenant and returns a Resource Manager backed azure.Client.
// A failing sign-in is fatal for every command, so it is surfaced here rather than on first use.
func New(ctx context.Context, cfg *config.Config) (azure.Client, *azure.Account, error) {
	cred, err := NewCredential(cfg)
	if err != nil {
		return nil, nil, err
	}

	c := client{
		tenant:     cfg.Tenant,
		credential: cred,
		options: &arm.ClientOptions{
			ClientOptions: policy.ClientOptions{
				Telemetry: policy.TelemetryOptions{
					ApplicationID: applicationID,
				},
			},
		},
	}

	account, err := c.WhoAmI(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("signing in to tenant '%s': %w", cfg.Tenant, err)
	}

	if err := verifyTenant(cfg.Tenant, account); err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"tenant":    account.TenantID,
		"principal": account.PrincipalName,
	}).Debug("signed in")

	return c, account, nil
}

func (c client) webApps(subscriptionID azure.SubscriptionId) (*armappservice.WebAppsClient, error) {
	webApps, err := armappservice.NewWebAppsClient(subscriptionID, c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating web apps client: %w", err)
	}
	return webApps, nil
}

func (c client) plans(subscriptionID azure.SubscriptionId) (*armappservice.PlansClient, error) {
	plans, err := armappservice.NewPlansClient(subscriptionID, c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating app service plans client: %w", err)
	}
	return plans, nil
}

func (c client) certificates(subscriptionID azure.SubscriptionId) (*armappservice.CertificatesClient, error) {
	certificates, err := armappservice.NewCertificatesClient(subscriptionID, c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating certificates client: %w", err)
	}
	return certificates, nil
}

func (c client) resourceGroups(subscriptionID azure.SubscriptionId) (*armresources.ResourceGroupsClient, error) {
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating resource groups client: %w", err)
	}
	return groups, nil
}

func (c client) subscriptions() (*armsubscriptions.Client, error) {
	subscriptions, err := armsubscriptions.NewClient(c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}
	return subscriptions, nil
}

func (c client) subnets(subscriptionID azure.SubscriptionId) (*armnetwork.SubnetsClient, error) {
	subnets, err := armnetwork.NewSubnetsClient(subscriptionID, c.credential, c.options)
	if err != nil {
		return nil, fmt.Errorf("creating subnets client: %w", err)
	}
	return subnets, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// notFoundAsErr maps a 404 response to azure.ErrNotFound and wraps everything else.
func notFoundAsErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", msg, azure.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isGUID(s string) bool {
	return govalidator.IsUUID(s)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func derefAll(in []*string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != nil && len(*s) > 0 {
			out = append(out, *s)
		}
	}
	return out
}

func derefMap(in map[string]*string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = deref(v)
	}
	return out
}
