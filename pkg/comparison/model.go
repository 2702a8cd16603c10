package comparison

import (
	"github.com/nais/appsvcmigrator/pkg/azure"
)

type Status string

const (
	StatusMatch     Status = "Match"
	StatusMissing   Status = "Missing"
	StatusDifferent Status = "Different"
	StatusExtra     Status = "Extra"
)

type Severity string

const (
	SeverityBlocker Severity = "Blocker"
	SeverityWarning Severity = "Warning"
)

const (
	CategoryAppSettings       = "App Settings"
	CategoryConnectionStrings = "Connection Strings"
	CategoryConfiguration     = "Configuration"
	CategoryCustomDomains     = "Custom Domains"
	CategoryManagedIdentity   = "Managed Identity"
	CategoryVNetIntegration   = "VNet Integration"
	CategoryAuthentication    = "Authentication"
	CategoryCORS              = "CORS"
	CategoryDeploymentSlots   = "Deployment Slots"
	CategoryIPRestrictions    = "IP Restrictions"
)

// NotConfigured is the value shown for a fixed feature that neither app has enabled.
const NotConfigured = "Not configured"

// Item is the outcome of comparing one key of one category.
type Item struct {
	Category    string `json:"category"`
	Name        string `json:"item"`
	Status      Status `json:"status"`
	SourceValue string `json:"sourceValue"`
	TargetValue string `json:"targetValue"`
	Notes       string `json:"notes,omitempty"`
}

// AppComparison holds every compared item for one source/target pair and the resulting verdict.
type AppComparison struct {
	Source             azure.AppRef `json:"source"`
	Target             azure.AppRef `json:"target"`
	Items              []Item       `json:"items"`
	MatchCount         int          `json:"matchCount"`
	MissingCount       int          `json:"missingCount"`
	DifferentCount     int          `json:"differentCount"`
	ExtraCount         int          `json:"extraCount"`
	Warnings           []string     `json:"warnings"`
	Blockers           []string     `json:"blockers"`
	ReadyForProduction bool         `json:"readyForProduction"`
}

func newAppComparison(source, target azure.AppRef) *AppComparison {
	return &AppComparison{
		Source:   source,
		Target:   target,
		Items:    make([]Item, 0),
		Warnings: make([]string, 0),
		Blockers: make([]string, 0),
	}
}

func (c *AppComparison) add(item Item) {
	c.Items = append(c.Items, item)
	switch item.Status {
	case StatusMatch:
		c.MatchCount++
	case StatusMissing:
		c.MissingCount++
	case StatusDifferent:
		c.DifferentCount++
	case StatusExtra:
		c.ExtraCount++
	}
}

func (c *AppComparison) flag(severity Severity, message string) {
	switch severity {
	case SeverityBlocker:
		c.Blockers = append(c.Blockers, message)
	case SeverityWarning:
		c.Warnings = append(c.Warnings, message)
	}
}

// ItemsIn returns the items of one category, in comparison order.
func (c AppComparison) ItemsIn(category string) []Item {
	items := make([]Item, 0)
	for _, item := range c.Items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

// Categories returns the categories present in the comparison, in comparison order.
func (c AppComparison) Categories() []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, item := range c.Items {
		if !seen[item.Category] {
			seen[item.Category] = true
			result = append(result, item.Category)
		}
	}
	return result
}
