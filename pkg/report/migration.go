package report

import (
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/nais/appsvcmigrator/pkg/migration"
)

// ImportSummaryLines counts rows per status and lists every failed row with its message.
func ImportSummaryLines(rows []*migration.Row) []string {
	counts := migration.Count(rows)
	lines := []string{
		"Import summary",
		fmt.Sprintf("  Total: %d  Success: %d  Failed: %d  Skipped: %d  WhatIf: %d  Pending: %d",
			len(rows),
			counts[migration.StatusSuccess],
			counts[migration.StatusFailed],
			counts[migration.StatusSkipped],
			counts[migration.StatusWhatIf],
			counts[migration.StatusPending],
		),
	}

	if counts[migration.StatusFailed] == 0 {
		return lines
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("SOURCE APP", "NEW APP", "MESSAGE")
	for _, row := range rows {
		if row.Status() != migration.StatusFailed {
			continue
		}
		table.AddRow(row.SourceRef().String(), row.NewAppName, row.ImportMessage)
	}

	lines = append(lines, "", "Failed rows")
	return append(lines, splitLines(table.String())...)
}

// ExportSummaryLines lists the exported rows.
func ExportSummaryLines(rows []*migration.Row, path string) []string {
	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("SUBSCRIPTION", "RESOURCE GROUP", "APP", "PLAN", "SKU", "LOCATION")
	for _, row := range rows {
		table.AddRow(row.SourceSubscriptionId, row.SourceResourceGroup, row.SourceAppName, row.SourceAppServicePlan, row.SourceSku, row.SourceLocation)
	}

	lines := splitLines(table.String())
	return append(lines, "", fmt.Sprintf("Exported %d app(s) to %s", len(rows), path))
}
