package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/comparison"
	"github.com/nais/appsvcmigrator/pkg/report"
)

func blocked() comparison.AppComparison {
	return comparison.AppComparison{
		Source: azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "old"},
		Target: azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "new"},
		Items: []comparison.Item{
			{Category: comparison.CategoryAppSettings, Name: "A", Status: comparison.StatusMissing, SourceValue: "1"},
			{Category: comparison.CategoryAppSettings, Name: "B", Status: comparison.StatusMatch, SourceValue: "2", TargetValue: "2"},
			{Category: comparison.CategoryConfiguration, Name: "Min TLS Version", Status: comparison.StatusDifferent, SourceValue: "1.2", TargetValue: "1.0"},
			{Category: comparison.CategoryCORS, Name: "https://example.com", Status: comparison.StatusExtra, TargetValue: ""},
		},
		MatchCount:     1,
		MissingCount:   1,
		DifferentCount: 1,
		ExtraCount:     1,
		Blockers:       []string{"App Settings: 'A' is missing on target"},
		Warnings:       []string{"Configuration: 'Min TLS Version' differs (1.2 -> 1.0)"},
	}
}

func TestComparisonLines(t *testing.T) {
	lines := report.ComparisonLines(blocked())

	assert.Contains(t, lines, "Comparison: sub/rg/old -> sub/rg/new")
	assert.Contains(t, lines, "  Items: 4  Match: 1  Missing: 1  Different: 1  Extra: 1")
	assert.Contains(t, lines, "  Ready for production: NO (1 blocker(s), 1 warning(s))")
	assert.Contains(t, lines, "Blockers (1)")
	assert.Contains(t, lines, "  - App Settings: 'A' is missing on target")
	assert.Contains(t, lines, "  [-] A: (hidden) -> (none)")
	assert.Contains(t, lines, "  [=] B: (hidden) -> (hidden)")
	assert.Contains(t, lines, "  [~] Min TLS Version: 1.2 -> 1.0")
	assert.Contains(t, lines, "  [+] https://example.com: (none) -> (empty)")
	assert.Contains(t, lines, "  ADD    App Settings: A")
	assert.Contains(t, lines, "  UPDATE Configuration: Min TLS Version")

	t.Run("app setting values never reach the text report", func(t *testing.T) {
		c := comparison.AppComparison{
			Items: []comparison.Item{
				{Category: comparison.CategoryAppSettings, Name: "API_KEY", Status: comparison.StatusDifferent, SourceValue: "s3cret", TargetValue: "0ld"},
				{Category: comparison.CategoryAppSettings, Name: "EMPTY", Status: comparison.StatusExtra, TargetValue: ""},
			},
			DifferentCount: 1,
			ExtraCount:     1,
		}

		lines := report.ComparisonLines(c)

		assert.Contains(t, lines, "  [~] API_KEY: (hidden) -> (hidden)")
		assert.Contains(t, lines, "  [+] EMPTY: (none) -> (empty)")
		for _, line := range lines {
			assert.NotContains(t, line, "s3cret")
			assert.NotContains(t, line, "0ld")
		}
	})

	t.Run("ready comparison has no action items", func(t *testing.T) {
		c := comparison.AppComparison{
			Items:              []comparison.Item{{Category: comparison.CategoryAppSettings, Name: "A", Status: comparison.StatusMatch}},
			MatchCount:         1,
			ReadyForProduction: true,
		}

		lines := report.ComparisonLines(c)

		assert.Contains(t, lines, "  Ready for production: YES (0 warning(s))")
		assert.Equal(t, []string{"Action Items", "  (none)"}, lines[len(lines)-2:])
		assert.Empty(t, report.ActionItems(c))
	})
}

func TestComparisonsLines(t *testing.T) {
	ready := comparison.AppComparison{ReadyForProduction: true}

	lines := report.ComparisonsLines([]comparison.AppComparison{blocked(), ready})

	assert.Equal(t, "1 of 2 app(s) ready for production", lines[len(lines)-1])
}
