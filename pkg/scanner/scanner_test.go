package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/fake"
	"github.com/nais/appsvcmigrator/pkg/scanner"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

var ref = azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "web"}

func TestScanner_Scan(t *testing.T) {
	tx := transaction.New(context.Background(), "scan")
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("bare app has no configuration", func(t *testing.T) {
		client := fake.NewClient()
		client.AddApp(ref)

		cfg := scanner.New(client).Scan(tx, ref)

		assert.False(t, cfg.HasConfiguration)
		assert.Empty(t, cfg.Warnings)
		assert.NotNil(t, cfg.CustomDomains)
		assert.Equal(t, ref, cfg.App)
	})

	t.Run("default root virtual application does not count", func(t *testing.T) {
		client := fake.NewClient()
		client.AddApp(ref).VirtualApplications = []azure.VirtualApplication{{VirtualPath: "/", PhysicalPath: `site\wwwroot`}}

		cfg := scanner.New(client).Scan(tx, ref)
		assert.False(t, cfg.HasConfiguration)
		assert.Len(t, cfg.VirtualApplications, 1)
	})

	t.Run("platform default allow-all rules do not count", func(t *testing.T) {
		client := fake.NewClient()
		client.AddApp(ref).IPRestrictions = []azure.IPRestriction{
			{Name: "Allow all", Action: "Allow", IPAddress: "Any", Priority: 2147483647},
			{Name: "Allow all", Action: "Allow", IPAddress: "Any", Priority: 2147483647, SCM: true},
		}

		cfg := scanner.New(client).Scan(tx, ref)
		assert.False(t, cfg.HasConfiguration)
		assert.Empty(t, cfg.IPRestrictions)
	})

	t.Run("custom ip rules are kept next to the default", func(t *testing.T) {
		client := fake.NewClient()
		client.AddApp(ref).IPRestrictions = []azure.IPRestriction{
			{Name: "office", Action: "Allow", IPAddress: "10.0.0.0/24", Priority: 100},
			{Name: "Deny all", Action: "Deny", IPAddress: "Any", Priority: 2147483647},
			{Name: "Allow all", Action: "Allow", IPAddress: "Any", Priority: 2147483647, SCM: true},
		}

		cfg := scanner.New(client).Scan(tx, ref)
		assert.True(t, cfg.HasConfiguration)
		require.Len(t, cfg.IPRestrictions, 2)
		assert.Equal(t, "office", cfg.IPRestrictions[0].Name)
		assert.Equal(t, "Deny all", cfg.IPRestrictions[1].Name)
	})

	t.Run("configured app", func(t *testing.T) {
		client := fake.NewClient()
		state := client.AddApp(ref)
		state.CustomDomains = []azure.CustomDomain{
			{HostName: "www.example.com", SSLState: azure.SSLStateSniEnabled, Thumbprint: "ABC"},
			{HostName: "plain.example.com", SSLState: azure.SSLStateDisabled},
		}
		state.Certificates = []azure.Certificate{
			{Thumbprint: "ABC", SubjectName: "www.example.com", ExpirationDate: now.Add(10 * 24 * time.Hour)},
			{Thumbprint: "DEF", SubjectName: "later.example.com", ExpirationDate: now.Add(90 * 24 * time.Hour)},
		}
		state.ManagedIdentity = azure.ManagedIdentity{SystemAssigned: true}

		cfg := scanner.New(client).WithClock(func() time.Time { return now }).Scan(tx, ref)

		assert.True(t, cfg.HasConfiguration)
		assert.Len(t, cfg.CustomDomains, 2)
		assert.True(t, cfg.ManagedIdentity.SystemAssigned)
		assert.Equal(t, []string{
			"SSL Certificates: certificate 'www.example.com' (ABC) expires 2024-03-11",
			"Custom Domains: 'plain.example.com' has no SSL binding",
		}, cfg.Warnings)
	})

	t.Run("failed read degrades to a warning", func(t *testing.T) {
		client := fake.NewClient()
		state := client.AddApp(ref)
		state.Slots = []azure.DeploymentSlot{{Name: "staging"}}
		client.Errors["GetSSLCertificates"] = errors.New("forbidden")

		cfg := scanner.New(client).Scan(tx, ref)

		require.Len(t, cfg.Warnings, 1)
		assert.Contains(t, cfg.Warnings[0], scanner.FacetSSLCertificates)
		assert.Contains(t, cfg.Warnings[0], "forbidden")
		assert.Empty(t, cfg.SSLCertificates)
		assert.Len(t, cfg.DeploymentSlots, 1)
		assert.True(t, cfg.HasConfiguration)
	})
}

func TestScanner_ScanAll(t *testing.T) {
	client := fake.NewClient()
	client.AddApp(ref)
	other := azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "api"}
	client.AddApp(other).AuthSettings = azure.AuthSettings{Enabled: true}

	apps, err := client.ListApps(context.Background(), "sub", "")
	require.NoError(t, err)

	refs := make([]azure.AppRef, 0, len(apps))
	for _, app := range apps {
		refs = append(refs, app.Ref())
	}

	configs := scanner.New(client).ScanAll(transaction.New(context.Background(), "scan"), refs)
	require.Len(t, configs, 2)
	assert.Equal(t, "api", configs[0].App.Name)
	assert.True(t, configs[0].HasConfiguration)
	assert.False(t, configs[1].HasConfiguration)
}
