package config_test

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/config"
)

func TestReportFormat(t *testing.T) {
	for _, tt := range []struct {
		name     string
		cfg      config.Config
		expected string
		err      bool
	}{
		{name: "empty defaults to text", cfg: config.Config{}, expected: config.FormatText},
		{name: "json flag wins over format", cfg: config.Config{JSON: true, Format: "yaml"}, expected: config.FormatJSON},
		{name: "yml alias", cfg: config.Config{Format: "YML"}, expected: config.FormatYAML},
		{name: "unknown format errors", cfg: config.Config{Format: "xml"}, err: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := tt.cfg.ReportFormat()
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestNew(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.GlobalFlags(fs)
	config.PairFlags(fs)
	config.CopyFlags(fs)

	err := fs.Parse([]string{
		"--tenant", "contoso.onmicrosoft.com",
		"--source.subscription", "sub-a",
		"--source.resource-group", "rg-a",
		"--source.app", "app-a",
		"--target.resource-group", "rg-b",
		"--target.app", "app-b",
		"--filter.exclude", "SECRET_*,DEBUG",
		"--include.general-config=false",
	})
	require.NoError(t, err)

	cfg, err := config.New(fs)
	require.NoError(t, err)

	t.Run("flags should be decoded into nested structs", func(t *testing.T) {
		assert.Equal(t, "contoso.onmicrosoft.com", cfg.Tenant)
		assert.Equal(t, "cli", cfg.Auth.Mode)
		assert.Equal(t, "app-a", cfg.Source.App)
		assert.Equal(t, "rg-b", cfg.Target.ResourceGroup)
		assert.Equal(t, []string{"SECRET_*", "DEBUG"}, cfg.Filter.Exclude)
		assert.True(t, cfg.Include.AppSettings)
		assert.False(t, cfg.Include.GeneralConfig)
	})

	t.Run("target subscription should default to source subscription", func(t *testing.T) {
		assert.Equal(t, "sub-a", cfg.Target.Subscription)
	})

	t.Run("validate should report missing required keys", func(t *testing.T) {
		assert.NoError(t, cfg.Validate([]string{config.Tenant, config.SourceApp}))

		err := cfg.Validate([]string{config.Tenant, config.CSV})
		assert.ErrorIs(t, err, config.ErrMissingConfiguration)
		assert.Contains(t, err.Error(), config.CSV)
	})

	viper.Reset()
}
