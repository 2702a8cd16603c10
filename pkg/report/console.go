package report

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nais/appsvcmigrator/pkg/comparison"
)

var (
	headingColor = color.New(color.Bold)
	missingColor = color.New(color.FgRed)
	diffColor    = color.New(color.FgYellow)
	extraColor   = color.New(color.FgCyan)
	matchColor   = color.New(color.FgGreen)
)

// Print writes lines coloured by status icon. color.NoColor turns colouring off when stdout is not a terminal.
func Print(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := colorFor(line).Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func colorFor(line string) *color.Color {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, Icon(comparison.StatusMissing)),
		strings.HasPrefix(trimmed, "Ready for production: NO"),
		strings.HasPrefix(trimmed, "[!]"):
		return missingColor
	case strings.HasPrefix(trimmed, Icon(comparison.StatusDifferent)):
		return diffColor
	case strings.HasPrefix(trimmed, Icon(comparison.StatusExtra)):
		return extraColor
	case strings.HasPrefix(trimmed, Icon(comparison.StatusMatch)),
		strings.HasPrefix(trimmed, "Ready for production: YES"):
		return matchColor
	case len(line) > 0 && line == trimmed && !strings.HasPrefix(line, "="):
		return headingColor
	}
	return color.New(color.Reset)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
