package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/scanner"
)

// ConfigurationLines renders the scanned configuration of one app.
func ConfigurationLines(cfg scanner.AppConfiguration) []string {
	lines := []string{
		rule,
		fmt.Sprintf("Configuration: %s", cfg.App),
		rule,
	}

	section := func(title string, entries []string) {
		lines = append(lines, fmt.Sprintf("%s (%d)", title, len(entries)))
		for _, e := range entries {
			lines = append(lines, "  - "+e)
		}
	}

	section(scanner.FacetCustomDomains, mapped(cfg.CustomDomains, func(d azure.CustomDomain) string {
		return fmt.Sprintf("%s [SSL: %s]", d.HostName, d.SSLState)
	}))
	section(scanner.FacetSSLCertificates, mapped(cfg.SSLCertificates, func(c azure.Certificate) string {
		line := fmt.Sprintf("%s (%s)", c.SubjectName, c.Thumbprint)
		if !c.ExpirationDate.IsZero() {
			line += " expires " + c.ExpirationDate.Format(time.DateOnly)
		}
		if len(c.KeyVaultID) > 0 {
			line += ", from key vault"
		}
		return line
	}))

	identities := make([]string, 0)
	if cfg.ManagedIdentity.SystemAssigned {
		identities = append(identities, "System-Assigned")
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.ManagedIdentity.UserAssigned)) {
		identities = append(identities, "User-Assigned: "+name)
	}
	section(scanner.FacetManagedIdentity, identities)

	vnet := make([]string, 0)
	if v := cfg.VNetIntegration; v.IsEnabled() {
		line := v.SubnetID
		if len(v.VNetName) > 0 {
			line = v.VNetName + "/" + v.SubnetName
		}
		if len(v.AddressPrefix) > 0 {
			line += " (" + v.AddressPrefix + ")"
		}
		if v.RouteAll {
			line += ", route all traffic"
		}
		vnet = append(vnet, line)
	}
	section(scanner.FacetVNetIntegration, vnet)

	section(scanner.FacetPrivateEndpoints, mapped(cfg.PrivateEndpoints, func(p azure.PrivateEndpoint) string {
		return fmt.Sprintf("%s [%s]", p.Name, p.Status)
	}))
	section(scanner.FacetHybridConnections, mapped(cfg.HybridConnections, func(h azure.HybridConnection) string {
		return fmt.Sprintf("%s -> %s:%d (%s)", h.Name, h.HostName, h.Port, h.Namespace)
	}))

	auth := make([]string, 0)
	if a := cfg.AuthSettings; a.Enabled {
		auth = append(auth, fmt.Sprintf("Easy Auth enabled, provider %s, unauthenticated action %s", value(a.DefaultProvider, false, false), value(a.UnauthenticatedClientAction, false, false)))
	}
	section(scanner.FacetAuthentication, auth)

	section(scanner.FacetCORS, cfg.Cors.AllowedOrigins)
	section(scanner.FacetDeploymentSlots, mapped(cfg.DeploymentSlots, func(s azure.DeploymentSlot) string {
		return fmt.Sprintf("%s [%s]", s.Name, s.State)
	}))
	section(scanner.FacetWebJobs, mapped(cfg.WebJobs, func(j azure.WebJob) string {
		return fmt.Sprintf("%s [%s]", j.Name, j.Type)
	}))

	backup := make([]string, 0)
	if b := cfg.Backup; b.Enabled {
		backup = append(backup, fmt.Sprintf("every %d %s, kept %d day(s)", b.FrequencyInterval, strings.ToLower(b.FrequencyUnit), b.RetentionPeriodInDays))
	}
	section(scanner.FacetBackup, backup)

	section(scanner.FacetIPRestrictions, mapped(cfg.IPRestrictions, func(r azure.IPRestriction) string {
		site := ""
		if r.SCM {
			site = " (SCM)"
		}
		return fmt.Sprintf("%d %s %s %s%s", r.Priority, r.Action, value(r.Name, false, false), r.IPAddress, site)
	}))
	section(scanner.FacetVirtualApplications, mapped(cfg.VirtualApplications, func(v azure.VirtualApplication) string {
		return fmt.Sprintf("%s -> %s", v.VirtualPath, v.PhysicalPath)
	}))

	lines = append(lines, "")
	lines = append(lines, listSection("Warnings", cfg.Warnings)...)
	if cfg.HasConfiguration {
		lines = append(lines, "Manual configuration required after migration: YES")
	} else {
		lines = append(lines, "Manual configuration required after migration: NO")
	}
	return lines
}

// ConfigurationsLines renders several scans followed by a tally.
func ConfigurationsLines(configs []scanner.AppConfiguration) []string {
	lines := make([]string, 0)
	configured := 0
	for _, cfg := range configs {
		lines = append(lines, ConfigurationLines(cfg)...)
		lines = append(lines, "")
		if cfg.HasConfiguration {
			configured++
		}
	}
	lines = append(lines, fmt.Sprintf("%d of %d app(s) need manual configuration after migration", configured, len(configs)))
	return lines
}

func mapped[T any](items []T, f func(T) string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, f(item))
	}
	return result
}
