package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
)

func (c client) ResourceGroupExists(ctx context.Context, subscriptionID azure.SubscriptionId, name string) (bool, error) {
	groups, err := c.resourceGroups(subscriptionID)
	if err != nil {
		return false, err
	}

	resp, err := groups.CheckExistence(ctx, name, nil)
	if err != nil {
		return false, fmt.Errorf("checking existence of resource group '%s': %w", name, err)
	}
	return resp.Success, nil
}

func (c client) CreateResourceGroup(ctx context.Context, subscriptionID azure.SubscriptionId, name, location string) error {
	groups, err := c.resourceGroups(subscriptionID)
	if err != nil {
		return err
	}

	_, err = groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
	}, nil)
	if err != nil {
		return fmt.Errorf("creating resource group '%s' in '%s': %w", name, location, err)
	}
	return nil
}

func (c client) CreatePlan(ctx context.Context, spec azure.PlanSpec) (*azure.Plan, error) {
	plans, err := c.plans(spec.SubscriptionID)
	if err != nil {
		return nil, err
	}

	kind := "app"
	if spec.Linux {
		kind = "linux"
	}

	poller, err := plans.BeginCreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, armappservice.Plan{
		Location: to.Ptr(spec.Location),
		Kind:     to.Ptr(kind),
		SKU: &armappservice.SKUDescription{
			Name: to.Ptr(spec.Sku),
		},
		Properties: &armappservice.PlanProperties{
			Reserved: to.Ptr(spec.Linux),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating app service plan '%s/%s': %w", spec.ResourceGroup, spec.Name, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("waiting for app service plan '%s/%s': %w", spec.ResourceGroup, spec.Name, err)
	}

	plan := toPlan(resp.Plan)
	return &plan, nil
}

func (c client) AppExists(ctx context.Context, ref azure.AppRef) (bool, error) {
	_, err := c.site(ctx, ref)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, azure.ErrNotFound):
		return false, nil
	}
	return false, err
}

func (c client) CreateApp(ctx context.Context, spec azure.AppSpec) (*azure.App, error) {
	webApps, err := c.webApps(spec.Ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	planID := spec.PlanID
	if _, err := resource.Parse(planID); err != nil {
		return nil, fmt.Errorf("invalid app service plan id '%s': %w", planID, err)
	}

	tags := make(map[string]*string, len(spec.Tags))
	for k, v := range spec.Tags {
		tags[k] = to.Ptr(v)
	}

	poller, err := webApps.BeginCreateOrUpdate(ctx, spec.Ref.ResourceGroup, spec.Ref.Name, armappservice.Site{
		Location: to.Ptr(spec.Location),
		Kind:     optional[string](spec.Kind),
		Tags:     tags,
		Properties: &armappservice.SiteProperties{
			ServerFarmID: to.Ptr(planID),
			HTTPSOnly:    to.Ptr(spec.HTTPSOnly),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating app '%s': %w", spec.Ref, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("waiting for app '%s': %w", spec.Ref, err)
	}

	app := toApp(spec.Ref.SubscriptionID, resp.Site)
	return &app, nil
}
