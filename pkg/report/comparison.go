package report

import (
	"fmt"
	"strings"

	"github.com/nais/appsvcmigrator/pkg/comparison"
)

const (
	rule        = "============================================================"
	hiddenValue = "(hidden)"
)

var icons = map[comparison.Status]string{
	comparison.StatusMatch:     "[=]",
	comparison.StatusMissing:   "[-]",
	comparison.StatusDifferent: "[~]",
	comparison.StatusExtra:     "[+]",
}

func Icon(status comparison.Status) string {
	return icons[status]
}

// ComparisonLines renders one comparison as Summary, Blockers, Warnings, per-category detail and Action Items.
func ComparisonLines(c comparison.AppComparison) []string {
	lines := []string{
		rule,
		fmt.Sprintf("Comparison: %s -> %s", c.Source, c.Target),
		rule,
		"",
		"Summary",
		fmt.Sprintf("  Items: %d  Match: %d  Missing: %d  Different: %d  Extra: %d", len(c.Items), c.MatchCount, c.MissingCount, c.DifferentCount, c.ExtraCount),
		"  Ready for production: " + verdict(c),
		"",
	}

	lines = append(lines, listSection("Blockers", c.Blockers)...)
	lines = append(lines, listSection("Warnings", c.Warnings)...)

	for _, category := range c.Categories() {
		lines = append(lines, category)
		for _, item := range c.ItemsIn(category) {
			lines = append(lines, itemLine(item))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Action Items")
	actions := ActionItems(c)
	if len(actions) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, action := range actions {
		lines = append(lines, "  "+action)
	}
	return lines
}

// ActionItems lists an ADD for every missing item and an UPDATE for every differing item.
func ActionItems(c comparison.AppComparison) []string {
	actions := make([]string, 0)
	for _, item := range c.Items {
		switch item.Status {
		case comparison.StatusMissing:
			actions = append(actions, fmt.Sprintf("ADD    %s: %s", item.Category, item.Name))
		case comparison.StatusDifferent:
			actions = append(actions, fmt.Sprintf("UPDATE %s: %s", item.Category, item.Name))
		}
	}
	return actions
}

// ComparisonsLines renders several comparisons followed by an overall tally.
func ComparisonsLines(comparisons []comparison.AppComparison) []string {
	lines := make([]string, 0)
	ready := 0
	for _, c := range comparisons {
		lines = append(lines, ComparisonLines(c)...)
		lines = append(lines, "")
		if c.ReadyForProduction {
			ready++
		}
	}
	lines = append(lines, fmt.Sprintf("%d of %d app(s) ready for production", ready, len(comparisons)))
	return lines
}

func verdict(c comparison.AppComparison) string {
	if c.ReadyForProduction {
		return fmt.Sprintf("YES (%d warning(s))", len(c.Warnings))
	}
	return fmt.Sprintf("NO (%d blocker(s), %d warning(s))", len(c.Blockers), len(c.Warnings))
}

// itemLine renders one compared item. Values of sensitive categories are masked.
func itemLine(item comparison.Item) string {
	sensitive := comparison.IsSensitive(item.Category)
	source := value(item.SourceValue, item.Status == comparison.StatusExtra, sensitive)
	target := value(item.TargetValue, item.Status == comparison.StatusMissing, sensitive)
	line := fmt.Sprintf("  %s %s: %s -> %s", Icon(item.Status), item.Name, source, target)
	if len(item.Notes) > 0 {
		line += "  (" + item.Notes + ")"
	}
	return line
}

func value(v string, absent, masked bool) string {
	switch {
	case absent:
		return "(none)"
	case len(strings.TrimSpace(v)) == 0:
		return "(empty)"
	case masked:
		return hiddenValue
	}
	return v
}

func listSection(title string, entries []string) []string {
	lines := []string{fmt.Sprintf("%s (%d)", title, len(entries))}
	if len(entries) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, e := range entries {
		lines = append(lines, "  - "+e)
	}
	return append(lines, "")
}
