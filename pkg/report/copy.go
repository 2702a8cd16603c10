package report

import (
	"fmt"
	"strings"

	"github.com/nais/appsvcmigrator/pkg/settings"
)

// CopyLines renders a settings copy. Only names are shown, never values.
func CopyLines(r settings.Report) []string {
	mode := "applied"
	if r.WhatIf {
		mode = "what-if, nothing written"
	}

	lines := []string{
		fmt.Sprintf("Copy: %s -> %s (%s)", r.Source, r.Target, mode),
	}
	for _, result := range r.Results {
		lines = append(lines, fmt.Sprintf("%s: %d added, %d updated, %d unchanged, %d conflict(s), %d excluded",
			result.Kind, len(result.Added), len(result.Updated), len(result.Unchanged), len(result.Conflicts), len(result.Excluded)))
		lines = appendNames(lines, "[+] add", result.Added)
		lines = appendNames(lines, "[~] update", result.Updated)
		lines = appendNames(lines, "[!] conflict", result.Conflicts)
		lines = appendNames(lines, "[x] excluded", result.Excluded)
		if len(result.Error) > 0 {
			lines = append(lines, fmt.Sprintf("  [!] failed: %s", result.Error))
		}
	}
	if n := r.Conflicts(); n > 0 {
		lines = append(lines, fmt.Sprintf("%d conflicting value(s) left untouched; rerun with --force to overwrite", n))
	}
	if errs := r.Errors(); len(errs) > 0 {
		lines = append(lines, fmt.Sprintf("%d kind(s) could not be copied; see the failures above", len(errs)))
	}
	return lines
}

func appendNames(lines []string, label string, names []string) []string {
	if len(names) == 0 {
		return lines
	}
	return append(lines, fmt.Sprintf("  %s: %s", label, strings.Join(names, ", ")))
}
