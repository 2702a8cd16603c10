package comparison

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

type Options struct {
	// IgnoreValues compares app settings by name only.
	IgnoreValues bool
}

// CompareApps fetches both apps and compares them.
func CompareApps(tx transaction.Transaction, reader azure.Reader, source, target azure.AppRef, opts Options) AppComparison {
	tx.Logger.Infof("comparing '%s' with '%s'", source, target)

	src := Fetch(tx.Ctx, reader, source)
	dst := Fetch(tx.Ctx, reader, target)
	for _, w := range slices.Concat(src.Warnings, dst.Warnings) {
		tx.Logger.Warn(w)
	}

	result := Compare(src, dst, opts)
	metrics.IncComparison(result.ReadyForProduction)
	metrics.IncApp(tx.Command)
	return result
}

// CompareRows compares every successfully imported row of a migration file with its target app.
func CompareRows(tx transaction.Transaction, reader azure.Reader, rows []*migration.Row, opts Options) []AppComparison {
	result := make([]AppComparison, 0)
	for _, row := range rows {
		if row.Status() != migration.StatusSuccess {
			continue
		}
		result = append(result, CompareApps(tx.ForApp(row.SourceRef()), reader, row.SourceRef(), row.TargetRef(), opts))
	}
	return result
}

// Compare classifies every key of every category found on either app. The result depends only on its input.
func Compare(source, target Snapshot, opts Options) AppComparison {
	c := newAppComparison(source.App, target.App)

	for _, w := range slices.Concat(source.Warnings, target.Warnings) {
		c.flag(SeverityWarning, w)
	}

	for _, cat := range categories {
		compareCategory(c, cat, cat.entries(source), cat.entries(target), opts)
	}

	c.ReadyForProduction = len(c.Blockers) == 0
	return *c
}

func compareCategory(c *AppComparison, cat category, source, target map[string]string, opts Options) {
	valuesCompared := !cat.presenceOnly && !(cat.ignorable && opts.IgnoreValues)

	for _, key := range keys(cat.fixed, source, target) {
		srcValue, inSource := source[key]
		dstValue, inTarget := target[key]

		item := Item{
			Category:    cat.name,
			Name:        key,
			SourceValue: srcValue,
			TargetValue: dstValue,
		}

		switch {
		case !inSource && !inTarget:
			item.Status = StatusMatch
			item.SourceValue = NotConfigured
			item.TargetValue = NotConfigured
			item.Notes = "Not configured on either app"
		case inSource && !inTarget:
			item.Status = StatusMissing
			item.Notes = "Present on source only"
			c.flag(cat.missing, fmt.Sprintf("%s: '%s' is missing on target", cat.name, key))
		case !inSource && inTarget:
			item.Status = StatusExtra
			item.Notes = "Present on target only"
		case !valuesCompared || srcValue == dstValue:
			item.Status = StatusMatch
			if srcValue != dstValue {
				item.Notes = "Values not compared"
			}
		default:
			item.Status = StatusDifferent
			item.Notes = "Values differ"
			c.flag(SeverityWarning, differs(cat, key, srcValue, dstValue))
		}

		c.add(item)
	}
}

func differs(cat category, key, source, target string) string {
	if cat.sensitive {
		return fmt.Sprintf("%s: '%s' differs between source and target", cat.name, key)
	}
	return fmt.Sprintf("%s: '%s' differs (%s -> %s)", cat.name, key, display(source), display(target))
}

func display(value string) string {
	if len(value) == 0 {
		return "(empty)"
	}
	return value
}

// keys returns the fixed keys in order, followed by every other key from either side, sorted.
func keys(fixed []string, source, target map[string]string) []string {
	result := slices.Clone(fixed)
	seen := make(map[string]bool, len(fixed))
	for _, k := range fixed {
		seen[k] = true
	}

	rest := make([]string, 0, len(source)+len(target))
	for _, k := range slices.Concat(slices.Collect(maps.Keys(source)), slices.Collect(maps.Keys(target))) {
		if !seen[k] {
			seen[k] = true
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(result, rest...)
}
