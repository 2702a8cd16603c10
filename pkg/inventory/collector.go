package inventory

import (
	"fmt"
	"strings"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

// Scope narrows the collection. Empty fields match everything.
type Scope struct {
	Subscription  azure.SubscriptionId
	ResourceGroup string
	App           string
}

type Collector struct {
	inventory azure.Inventory
}

func NewCollector(inventory azure.Inventory) Collector {
	return Collector{inventory: inventory}
}

// Subscriptions returns the given subscription, or every enabled subscription visible in the tenant.
func (c Collector) Subscriptions(tx transaction.Transaction, subscription azure.SubscriptionId) ([]azure.SubscriptionId, error) {
	if len(subscription) > 0 {
		return []azure.SubscriptionId{subscription}, nil
	}

	subscriptions, err := c.inventory.ListSubscriptions(tx.Ctx)
	if err != nil {
		return nil, err
	}

	result := make([]azure.SubscriptionId, 0, len(subscriptions))
	for _, s := range subscriptions {
		if !s.IsEnabled() {
			tx.Logger.Debugf("skipping subscription '%s' (%s) in state %s", s.Name, s.ID, s.State)
			continue
		}
		result = append(result, s.ID)
	}
	return result, nil
}

// Apps lists the apps in scope across all subscriptions.
func (c Collector) Apps(tx transaction.Transaction, scope Scope) ([]azure.App, error) {
	subscriptions, err := c.Subscriptions(tx, scope.Subscription)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	result := make([]azure.App, 0)
	for _, subscription := range subscriptions {
		apps, err := c.inventory.ListApps(tx.Ctx, subscription, scope.ResourceGroup)
		if err != nil {
			tx.Logger.Warnf("listing apps in subscription '%s': %v", subscription, err)
			continue
		}
		for _, app := range apps {
			if len(scope.App) > 0 && !strings.EqualFold(app.Name, scope.App) {
				continue
			}
			result = append(result, app)
		}
	}
	return result, nil
}

// Collect maps every app in scope to a pending migration row, with target values defaulting to the source.
func (c Collector) Collect(tx transaction.Transaction, scope Scope) ([]*migration.Row, error) {
	subscriptions, err := c.Subscriptions(tx, scope.Subscription)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	rows := make([]*migration.Row, 0)
	for _, subscription := range subscriptions {
		logger := tx.Logger.WithField("subscription", subscription)

		plans := make(map[string]azure.Plan)
		planList, err := c.inventory.ListPlans(tx.Ctx, subscription)
		if err != nil {
			logger.Warnf("listing app service plans: %v", err)
		}
		for _, p := range planList {
			plans[strings.ToLower(p.ID)] = p
		}

		apps, err := c.inventory.ListApps(tx.Ctx, subscription, scope.ResourceGroup)
		if err != nil {
			logger.Warnf("listing apps: %v", err)
			continue
		}

		collected := 0
		for _, app := range apps {
			if len(scope.App) > 0 && !strings.EqualFold(app.Name, scope.App) {
				continue
			}
			plan, found := plans[strings.ToLower(app.PlanID)]
			if !found {
				logger.WithField("app", app.Name).Debugf("app service plan '%s' not resolved", app.PlanID)
				plan = azure.Plan{Name: resource.Name(app.PlanID)}
			}
			rows = append(rows, NewRow(app, plan))
			metrics.IncApp(tx.Command)
			collected++
		}
		logger.Infof("collected %d app(s)", collected)
	}
	return rows, nil
}

func NewRow(app azure.App, plan azure.Plan) *migration.Row {
	return &migration.Row{
		SourceSubscriptionId: app.SubscriptionID,
		SourceResourceGroup:  app.ResourceGroup,
		SourceAppName:        app.Name,
		SourceAppServicePlan: plan.Name,
		SourceLocation:       app.Location,
		SourceSku:            plan.Sku,
		SourceKind:           app.Kind,
		TargetSubscriptionId: app.SubscriptionID,
		TargetResourceGroup:  app.ResourceGroup,
		TargetAppServicePlan: plan.Name,
		TargetLocation:       app.Location,
		TargetSku:            plan.Sku,
		ImportStatus:         migration.StatusPending,
	}
}
