package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/fake"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
	"github.com/nais/appsvcmigrator/pkg/inventory"
	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

func setup() *fake.Client {
	client := fake.NewClient()
	client.Subscriptions = []azure.Subscription{
		{ID: "sub-a", Name: "a", State: "Enabled"},
		{ID: "sub-b", Name: "b", State: "Enabled"},
		{ID: "sub-c", Name: "c", State: "Disabled"},
	}
	client.Plans["sub-a"] = []azure.Plan{
		{ID: resource.PlanID("sub-a", "rg-1", "plan-1"), Name: "plan-1", ResourceGroup: "rg-1", Sku: "P1v3"},
	}

	web := client.AddApp(azure.AppRef{SubscriptionID: "sub-a", ResourceGroup: "rg-1", Name: "web"})
	web.App.PlanID = resource.PlanID("sub-a", "rg-1", "plan-1")
	web.App.Kind = "app,linux"

	api := client.AddApp(azure.AppRef{SubscriptionID: "sub-a", ResourceGroup: "rg-2", Name: "api"})
	api.App.PlanID = resource.PlanID("sub-a", "rg-2", "gone")

	client.AddApp(azure.AppRef{SubscriptionID: "sub-b", ResourceGroup: "rg-1", Name: "worker"})
	client.AddApp(azure.AppRef{SubscriptionID: "sub-c", ResourceGroup: "rg-1", Name: "disabled"})
	return client
}

func names(rows []*migration.Row) []string {
	result := make([]string, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.SourceAppName)
	}
	return result
}

func TestCollector_Collect(t *testing.T) {
	tx := transaction.New(context.Background(), "export")

	t.Run("all enabled subscriptions", func(t *testing.T) {
		rows, err := inventory.NewCollector(setup()).Collect(tx, inventory.Scope{})
		require.NoError(t, err)
		assert.Equal(t, []string{"web", "api", "worker"}, names(rows))
	})

	t.Run("row defaults target to source", func(t *testing.T) {
		rows, err := inventory.NewCollector(setup()).Collect(tx, inventory.Scope{Subscription: "sub-a", ResourceGroup: "rg-1"})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		row := rows[0]
		assert.Equal(t, "sub-a", row.SourceSubscriptionId)
		assert.Equal(t, "rg-1", row.SourceResourceGroup)
		assert.Equal(t, "plan-1", row.SourceAppServicePlan)
		assert.Equal(t, "P1v3", row.SourceSku)
		assert.Equal(t, "app,linux", row.SourceKind)
		assert.Equal(t, "westeurope", row.SourceLocation)
		assert.Equal(t, row.SourceSubscriptionId, row.TargetSubscriptionId)
		assert.Equal(t, row.SourceResourceGroup, row.TargetResourceGroup)
		assert.Equal(t, row.SourceAppServicePlan, row.TargetAppServicePlan)
		assert.Equal(t, row.SourceLocation, row.TargetLocation)
		assert.Equal(t, row.SourceSku, row.TargetSku)
		assert.Empty(t, row.NewAppName)
		assert.Equal(t, migration.StatusPending, row.ImportStatus)
	})

	t.Run("unresolved plan still yields a row", func(t *testing.T) {
		rows, err := inventory.NewCollector(setup()).Collect(tx, inventory.Scope{Subscription: "sub-a", App: "api"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "gone", rows[0].SourceAppServicePlan)
		assert.Empty(t, rows[0].SourceSku)
	})

	t.Run("failing subscription is skipped", func(t *testing.T) {
		client := setup()
		client.Errors["ListApps:sub-a"] = errors.New("forbidden")

		rows, err := inventory.NewCollector(client).Collect(tx, inventory.Scope{})
		require.NoError(t, err)
		assert.Equal(t, []string{"worker"}, names(rows))
	})

	t.Run("failing subscription listing is fatal", func(t *testing.T) {
		client := setup()
		client.Errors["ListSubscriptions"] = errors.New("unauthorized")

		_, err := inventory.NewCollector(client).Collect(tx, inventory.Scope{})
		assert.ErrorContains(t, err, "unauthorized")
	})
}

func TestCollector_Apps(t *testing.T) {
	tx := transaction.New(context.Background(), "scan")

	apps, err := inventory.NewCollector(setup()).Apps(tx, inventory.Scope{App: "WORKER"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "sub-b", apps[0].SubscriptionID)
}
