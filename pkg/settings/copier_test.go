package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/fake"
	"github.com/nais/appsvcmigrator/pkg/settings"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

var (
	source = azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "source"}
	target = azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "target"}
)

func setup() *fake.Client {
	client := fake.NewClient()

	src := client.AddApp(source)
	src.AppSettings = map[string]string{
		"A":                    "1",
		"B":                    "2",
		"C":                    "3",
		"WEBSITE_CONTENTSHARE": "source-share",
	}
	src.ConnectionStrings = map[string]azure.ConnectionString{
		"db": {Value: "Server=src", Type: azure.ConnectionStringTypeSQLAzure},
	}
	src.GeneralConfig = azure.GeneralConfig{AlwaysOn: true, MinTLSVersion: "1.2", LinuxFxVersion: "NODE|20-lts"}

	dst := client.AddApp(target)
	dst.AppSettings = map[string]string{
		"B":     "2",
		"C":     "changed",
		"EXTRA": "kept",
	}
	dst.GeneralConfig = azure.GeneralConfig{MinTLSVersion: "1.0", FTPSState: "Disabled"}
	return client
}

func result(t *testing.T, report *settings.Report, kind settings.Kind) settings.Result {
	for _, r := range report.Results {
		if r.Kind == kind {
			return r
		}
	}
	t.Fatalf("no result for %s", kind)
	return settings.Result{}
}

func TestCopier_Copy(t *testing.T) {
	tx := transaction.New(context.Background(), "copy")

	t.Run("without overwrite differing values are conflicts", func(t *testing.T) {
		client := setup()
		report, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.AllKinds())
		require.NoError(t, err)

		appSettings := result(t, report, settings.KindAppSettings)
		assert.Equal(t, []string{"A"}, appSettings.Added)
		assert.Empty(t, appSettings.Updated)
		assert.Equal(t, []string{"B"}, appSettings.Unchanged)
		assert.Equal(t, []string{"C"}, appSettings.Conflicts)
		assert.Equal(t, []string{"WEBSITE_CONTENTSHARE"}, appSettings.Excluded)
		assert.True(t, appSettings.Applied)

		assert.Equal(t, map[string]string{
			"A":     "1",
			"B":     "2",
			"C":     "changed",
			"EXTRA": "kept",
		}, client.Apps[target].AppSettings)
		assert.Equal(t, 1, report.Conflicts())
	})

	t.Run("overwrite updates differing values", func(t *testing.T) {
		client := setup()
		opts := settings.AllKinds()
		opts.Overwrite = true

		report, err := settings.NewCopier(client, client).Copy(tx, source, target, opts)
		require.NoError(t, err)

		appSettings := result(t, report, settings.KindAppSettings)
		assert.Equal(t, []string{"C"}, appSettings.Updated)
		assert.Empty(t, appSettings.Conflicts)
		assert.Equal(t, "3", client.Apps[target].AppSettings["C"])
		assert.Equal(t, "kept", client.Apps[target].AppSettings["EXTRA"])
		assert.NotContains(t, client.Apps[target].AppSettings, "WEBSITE_CONTENTSHARE")

		config := client.Apps[target].GeneralConfig
		assert.True(t, config.AlwaysOn)
		assert.Equal(t, "1.2", config.MinTLSVersion)
		assert.Equal(t, "NODE|20-lts", config.LinuxFxVersion)
		assert.Equal(t, "Disabled", config.FTPSState)
	})

	t.Run("connection strings keep their type", func(t *testing.T) {
		client := setup()
		_, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.AllKinds())
		require.NoError(t, err)
		assert.Equal(t, azure.ConnectionString{Value: "Server=src", Type: azure.ConnectionStringTypeSQLAzure}, client.Apps[target].ConnectionStrings["db"])
	})

	t.Run("general config without overwrite only fills unset fields", func(t *testing.T) {
		client := setup()
		report, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.AllKinds())
		require.NoError(t, err)

		general := result(t, report, settings.KindGeneralConfig)
		assert.ElementsMatch(t, []string{"alwaysOn", "linuxFxVersion"}, general.Added)
		assert.Equal(t, []string{"minTlsVersion"}, general.Conflicts)
		assert.Equal(t, "1.0", client.Apps[target].GeneralConfig.MinTLSVersion)
		assert.True(t, client.Apps[target].GeneralConfig.AlwaysOn)
	})

	t.Run("what-if writes nothing", func(t *testing.T) {
		client := setup()
		opts := settings.AllKinds()
		opts.WhatIf = true

		report, err := settings.NewCopier(client, client).Copy(tx, source, target, opts)
		require.NoError(t, err)

		assert.True(t, report.WhatIf)
		assert.Positive(t, report.Changes())
		assert.Empty(t, client.Writes())
		for _, r := range report.Results {
			assert.False(t, r.Applied, r.Kind)
		}
	})

	t.Run("include flags select kinds", func(t *testing.T) {
		client := setup()
		report, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.Options{ConnectionStrings: true})
		require.NoError(t, err)

		require.Len(t, report.Results, 1)
		assert.Equal(t, settings.KindConnectionStrings, report.Results[0].Kind)
		assert.Equal(t, []string{"SetConnectionStrings:" + target.String()}, client.Writes())
	})

	t.Run("name filters", func(t *testing.T) {
		client := setup()
		opts := settings.Options{AppSettings: true, Include: []string{"a", "c*"}, Exclude: []string{"C"}}

		report, err := settings.NewCopier(client, client).Copy(tx, source, target, opts)
		require.NoError(t, err)

		appSettings := result(t, report, settings.KindAppSettings)
		assert.Equal(t, []string{"A"}, appSettings.Added)
		assert.ElementsMatch(t, []string{"B", "C", "WEBSITE_CONTENTSHARE"}, appSettings.Excluded)
	})

	t.Run("nothing to do performs no writes", func(t *testing.T) {
		client := setup()
		client.Apps[target].AppSettings = map[string]string{"A": "1", "B": "2", "C": "3"}

		report, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.Options{AppSettings: true})
		require.NoError(t, err)
		assert.Zero(t, report.Changes())
		assert.Empty(t, client.Writes())
	})

	t.Run("read failure is recorded and the other kinds are still copied", func(t *testing.T) {
		client := setup()
		client.Errors["GetAppSettings:source"] = errors.New("forbidden")

		report, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.AllKinds())
		require.NoError(t, err)

		appSettings := result(t, report, settings.KindAppSettings)
		assert.Contains(t, appSettings.Error, "reading source app settings")
		assert.False(t, appSettings.Applied)
		assert.Equal(t, []string{"App Settings: reading source app settings: forbidden"}, report.Errors())
		assert.Contains(t, client.Apps[target].ConnectionStrings, "db")
	})

	t.Run("failed write keeps going with the next kind", func(t *testing.T) {
		client := setup()
		client.Errors["SetAppSettings"] = errors.New("boom")

		opts := settings.AllKinds()
		opts.Overwrite = true
		report, err := settings.NewCopier(client, client).Copy(tx, source, target, opts)
		require.NoError(t, err)
		require.Len(t, report.Results, 3)

		appSettings := result(t, report, settings.KindAppSettings)
		assert.Equal(t, "writing app settings: boom", appSettings.Error)
		assert.Equal(t, []string{"A"}, appSettings.Added)
		assert.False(t, appSettings.Applied)

		assert.True(t, result(t, report, settings.KindConnectionStrings).Applied)
		assert.True(t, result(t, report, settings.KindGeneralConfig).Applied)
		assert.Empty(t, result(t, report, settings.KindConnectionStrings).Error)
		assert.Equal(t, azure.ConnectionString{Value: "Server=src", Type: azure.ConnectionStringTypeSQLAzure}, client.Apps[target].ConnectionStrings["db"])
		assert.True(t, client.Apps[target].GeneralConfig.AlwaysOn)
		assert.Len(t, report.Errors(), 1)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		client := setup()
		_, err := settings.NewCopier(client, client).Copy(tx, source, target, settings.Options{AppSettings: true, Include: []string{"["}})
		assert.Error(t, err)
	})
}

func TestFilter_Allows(t *testing.T) {
	filter, err := settings.NewFilter(nil, []string{"SECRET_*"})
	require.NoError(t, err)

	assert.True(t, filter.Allows("DATABASE_URL"))
	assert.False(t, filter.Allows("secret_key"))
	assert.False(t, filter.Allows("WEBSITE_CONTENTAZUREFILECONNECTIONSTRING"))
}
