package comparison

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ItemSystemAssigned = "System-Assigned"
	ItemSubnet         = "Subnet"
	ItemEasyAuth       = "Easy Auth"
)

const (
	valueEnabled  = "Enabled"
	valueAssigned = "Assigned"
	valueAllowed  = "Allowed"
	valueExists   = "Exists"
)

// category describes how one configuration area is keyed, compared and judged.
type category struct {
	name string
	// entries maps every key present on the app to its compared value.
	entries func(Snapshot) map[string]string
	// fixed keys are always reported, in this order, even when neither app has them.
	fixed []string
	// presenceOnly compares keys only, never values.
	presenceOnly bool
	// ignorable categories compare keys only when values are ignored.
	ignorable bool
	// sensitive values are left out of warnings and blockers.
	sensitive bool
	missing   Severity
}

// IsSensitive reports whether the values of the named category are secrets that reports should mask.
func IsSensitive(name string) bool {
	for _, cat := range categories {
		if cat.name == name {
			return cat.sensitive
		}
	}
	return false
}

var categories = []category{
	{
		name:      CategoryAppSettings,
		entries:   func(s Snapshot) map[string]string { return s.AppSettings },
		ignorable: true,
		sensitive: true,
		missing:   SeverityBlocker,
	},
	{
		name:    CategoryConnectionStrings,
		entries: connectionStringEntries,
		missing: SeverityBlocker,
	},
	{
		name:    CategoryConfiguration,
		entries: configurationEntries,
		fixed:   configurationKeys,
		missing: SeverityWarning,
	},
	{
		name:    CategoryCustomDomains,
		entries: customDomainEntries,
		missing: SeverityWarning,
	},
	{
		name:    CategoryManagedIdentity,
		entries: managedIdentityEntries,
		fixed:   []string{ItemSystemAssigned},
		missing: SeverityBlocker,
	},
	{
		name:    CategoryVNetIntegration,
		entries: vnetEntries,
		fixed:   []string{ItemSubnet},
		missing: SeverityBlocker,
	},
	{
		name:    CategoryAuthentication,
		entries: authenticationEntries,
		fixed:   []string{ItemEasyAuth},
		missing: SeverityBlocker,
	},
	{
		name:         CategoryCORS,
		entries:      corsEntries,
		presenceOnly: true,
		missing:      SeverityWarning,
	},
	{
		name:         CategoryDeploymentSlots,
		entries:      slotEntries,
		presenceOnly: true,
		missing:      SeverityWarning,
	},
	{
		name:    CategoryIPRestrictions,
		entries: ipRestrictionEntries,
		missing: SeverityWarning,
	},
}

const (
	ItemAlwaysOn      = "Always On"
	ItemHTTP2         = "HTTP/2"
	ItemMinTLSVersion = "Min TLS Version"
	ItemFTPSState     = "FTPS State"
	ItemWebSockets    = "WebSockets"
	ItemRuntimeStack  = "Runtime Stack"
)

var configurationKeys = []string{ItemAlwaysOn, ItemHTTP2, ItemMinTLSVersion, ItemFTPSState, ItemWebSockets, ItemRuntimeStack}

func connectionStringEntries(s Snapshot) map[string]string {
	entries := make(map[string]string, len(s.ConnectionStrings))
	for name, cs := range s.ConnectionStrings {
		entries[name] = string(cs.Type)
	}
	return entries
}

func configurationEntries(s Snapshot) map[string]string {
	if s.GeneralConfig == nil {
		return nil
	}
	c := s.GeneralConfig
	return map[string]string{
		ItemAlwaysOn:      strconv.FormatBool(c.AlwaysOn),
		ItemHTTP2:         strconv.FormatBool(c.HTTP20Enabled),
		ItemMinTLSVersion: c.MinTLSVersion,
		ItemFTPSState:     c.FTPSState,
		ItemWebSockets:    strconv.FormatBool(c.WebSocketsEnabled),
		ItemRuntimeStack:  c.RuntimeStack(),
	}
}

func customDomainEntries(s Snapshot) map[string]string {
	entries := make(map[string]string, len(s.CustomDomains))
	for _, d := range s.CustomDomains {
		entries[strings.ToLower(d.HostName)] = string(d.SSLState)
	}
	return entries
}

func managedIdentityEntries(s Snapshot) map[string]string {
	entries := make(map[string]string)
	if s.ManagedIdentity.SystemAssigned {
		entries[ItemSystemAssigned] = valueEnabled
	}
	for name := range s.ManagedIdentity.UserAssigned {
		entries[name] = valueAssigned
	}
	return entries
}

func vnetEntries(s Snapshot) map[string]string {
	if !s.VNetIntegration.IsEnabled() {
		return nil
	}
	return map[string]string{ItemSubnet: subnetLabel(s)}
}

// subnetLabel identifies the subnet as "vnet/subnet", leaving out the subscription and resource group.
func subnetLabel(s Snapshot) string {
	v := s.VNetIntegration
	if len(v.VNetName) > 0 && len(v.SubnetName) > 0 {
		return v.VNetName + "/" + v.SubnetName
	}
	return v.SubnetID
}

func authenticationEntries(s Snapshot) map[string]string {
	if !s.AuthSettings.Enabled {
		return nil
	}
	return map[string]string{ItemEasyAuth: valueEnabled}
}

func corsEntries(s Snapshot) map[string]string {
	entries := make(map[string]string, len(s.Cors.AllowedOrigins))
	for _, origin := range s.Cors.AllowedOrigins {
		entries[origin] = valueAllowed
	}
	return entries
}

func slotEntries(s Snapshot) map[string]string {
	entries := make(map[string]string, len(s.DeploymentSlots))
	for _, slot := range s.DeploymentSlots {
		entries[slot.Name] = valueExists
	}
	return entries
}

// ipRestrictionEntries keys rules by name. Unnamed rules fall back to their priority, and rules guarding the SCM site
// are prefixed so they never collide with the main site's rules.
func ipRestrictionEntries(s Snapshot) map[string]string {
	entries := make(map[string]string, len(s.IPRestrictions))
	for _, r := range s.IPRestrictions {
		key := r.Name
		if len(key) == 0 {
			key = fmt.Sprintf("priority %d", r.Priority)
		}
		if r.SCM {
			key = "SCM: " + key
		}
		for i := 2; ; i++ {
			if _, taken := entries[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s #%d", strings.TrimSuffix(key, fmt.Sprintf(" #%d", i-1)), i)
		}
		entries[key] = strings.TrimSpace(r.Action + " " + r.IPAddress)
	}
	return entries
}
