package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
)

func (c client) ListSubscriptions(ctx context.Context) ([]azure.Subscription, error) {
	subscriptions, err := c.subscriptions()
	if err != nil {
		return nil, err
	}

	result := make([]azure.Subscription, 0)
	pager := subscriptions.NewListPager(nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}
		for _, s := range next.Value {
			if s == nil {
				continue
			}
			if isGUID(c.tenant) && len(deref(s.TenantID)) > 0 && !strings.EqualFold(deref(s.TenantID), c.tenant) {
				continue
			}
			result = append(result, azure.Subscription{
				ID:    deref(s.SubscriptionID),
				Name:  deref(s.DisplayName),
				State: string(deref(s.State)),
			})
		}
	}
	return result, nil
}

func (c client) ListPlans(ctx context.Context, subscriptionID azure.SubscriptionId) ([]azure.Plan, error) {
	plans, err := c.plans(subscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.Plan, 0)
	pager := plans.NewListPager(nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing app service plans in subscription '%s': %w", subscriptionID, err)
		}
		for _, p := range next.Value {
			if p == nil {
				continue
			}
			result = append(result, toPlan(*p))
		}
	}
	return result, nil
}

func (c client) GetPlan(ctx context.Context, subscriptionID azure.SubscriptionId, resourceGroup, name string) (*azure.Plan, error) {
	plans, err := c.plans(subscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := plans.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "getting app service plan '%s/%s'", resourceGroup, name)
	}
	// The plans API answers 404 with an empty body instead of an error.
	if resp.ID == nil {
		return nil, fmt.Errorf("getting app service plan '%s/%s': %w", resourceGroup, name, azure.ErrNotFound)
	}

	plan := toPlan(resp.Plan)
	return &plan, nil
}

func (c client) ListApps(ctx context.Context, subscriptionID azure.SubscriptionId, resourceGroup string) ([]azure.App, error) {
	webApps, err := c.webApps(subscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.App, 0)
	appendPage := func(sites []*armappservice.Site) {
		for _, s := range sites {
			if s == nil {
				continue
			}
			result = append(result, toApp(subscriptionID, *s))
		}
	}

	if len(resourceGroup) > 0 {
		pager := webApps.NewListByResourceGroupPager(resourceGroup, nil)
		for pager.More() {
			next, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("listing apps in resource group '%s': %w", resourceGroup, err)
			}
			appendPage(next.Value)
		}
		return result, nil
	}

	pager := webApps.NewListPager(nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing apps in subscription '%s': %w", subscriptionID, err)
		}
		appendPage(next.Value)
	}
	return result, nil
}

func (c client) GetApp(ctx context.Context, ref azure.AppRef) (*azure.App, error) {
	site, err := c.site(ctx, ref)
	if err != nil {
		return nil, err
	}
	app := toApp(ref.SubscriptionID, *site)
	return &app, nil
}

func (c client) site(ctx context.Context, ref azure.AppRef) (*armappservice.Site, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.Get(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "getting app '%s'", ref)
	}
	if resp.ID == nil {
		return nil, fmt.Errorf("getting app '%s': %w", ref, azure.ErrNotFound)
	}
	return &resp.Site, nil
}

func toPlan(p armappservice.Plan) azure.Plan {
	plan := azure.Plan{
		ID:            deref(p.ID),
		Name:          deref(p.Name),
		ResourceGroup: resource.ResourceGroup(deref(p.ID)),
		Location:      deref(p.Location),
		Kind:          deref(p.Kind),
	}
	if p.SKU != nil {
		plan.Sku = deref(p.SKU.Name)
		plan.Tier = deref(p.SKU.Tier)
	}
	if p.Properties != nil {
		plan.Reserved = deref(p.Properties.Reserved)
	}
	return plan
}

func toApp(subscriptionID azure.SubscriptionId, s armappservice.Site) azure.App {
	app := azure.App{
		ID:             deref(s.ID),
		Name:           deref(s.Name),
		ResourceGroup:  resource.ResourceGroup(deref(s.ID)),
		SubscriptionID: subscriptionID,
		Location:       deref(s.Location),
		Kind:           deref(s.Kind),
		Tags:           derefMap(s.Tags),
	}
	if p := s.Properties; p != nil {
		app.PlanID = deref(p.ServerFarmID)
		app.State = deref(p.State)
		app.DefaultHostName = deref(p.DefaultHostName)
		app.HTTPSOnly = deref(p.HTTPSOnly)
	}
	return app
}
