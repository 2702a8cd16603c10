package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/report"
	"github.com/nais/appsvcmigrator/pkg/settings"
)

func TestImportSummaryLines(t *testing.T) {
	rows := []*migration.Row{
		{SourceSubscriptionId: "sub", SourceResourceGroup: "rg", SourceAppName: "a", NewAppName: "a-new", ImportStatus: migration.StatusSuccess},
		{SourceSubscriptionId: "sub", SourceResourceGroup: "rg", SourceAppName: "b", NewAppName: "b-new", ImportStatus: migration.StatusFailed, ImportMessage: "creating app: name is taken"},
		{SourceSubscriptionId: "sub", SourceResourceGroup: "rg", SourceAppName: "c", ImportStatus: migration.StatusSkipped},
	}

	lines := report.ImportSummaryLines(rows)
	out := strings.Join(lines, "\n")

	assert.Equal(t, "  Total: 3  Success: 1  Failed: 1  Skipped: 1  WhatIf: 0  Pending: 0", lines[1])
	assert.Contains(t, out, "Failed rows")
	assert.Contains(t, out, "SOURCE APP")
	assert.Contains(t, out, "sub/rg/b")
	assert.Contains(t, out, "creating app: name is taken")
	assert.NotContains(t, out, "sub/rg/a ")

	t.Run("no failures means no table", func(t *testing.T) {
		lines := report.ImportSummaryLines(rows[:1])
		assert.Len(t, lines, 2)
	})
}

func TestCopyLines(t *testing.T) {
	r := settings.Report{
		WhatIf: true,
		Results: []settings.Result{{
			Kind:      settings.KindAppSettings,
			Added:     []string{"A", "B"},
			Conflicts: []string{"C"},
		}},
	}

	lines := report.CopyLines(r)

	assert.Contains(t, lines[0], "what-if, nothing written")
	assert.Contains(t, lines, "App Settings: 2 added, 0 updated, 0 unchanged, 1 conflict(s), 0 excluded")
	assert.Contains(t, lines, "  [+] add: A, B")
	assert.Contains(t, lines, "  [!] conflict: C")
	assert.Contains(t, lines[len(lines)-1], "--force")
}

func TestCopyLines_Failures(t *testing.T) {
	r := settings.Report{
		Results: []settings.Result{
			{Kind: settings.KindAppSettings, Added: []string{"A"}, Error: "writing app settings: boom"},
			{Kind: settings.KindConnectionStrings, Added: []string{"db"}, Applied: true},
		},
	}

	lines := report.CopyLines(r)

	assert.Contains(t, lines, "  [!] failed: writing app settings: boom")
	assert.Equal(t, "1 kind(s) could not be copied; see the failures above", lines[len(lines)-1])
}
