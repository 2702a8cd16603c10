package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nais/appsvcmigrator/pkg/config"
)

func WriteLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML with the same field names and order as its JSON form.
func WriteYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("converting report to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the JSON input was parsed with. Strings that would
// otherwise read back as another type are still quoted by the encoder.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Write renders a report in the given format: lines for text, v for json and yaml.
func Write(w io.Writer, format string, lines []string, v any) error {
	switch format {
	case config.FormatJSON:
		return WriteJSON(w, v)
	case config.FormatYAML:
		return WriteYAML(w, v)
	}
	return WriteLines(w, lines)
}

// WriteFile writes an uncoloured report to path.
func WriteFile(path, format string, lines []string, v any) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, lines, v); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing report to '%s': %w", path, err)
	}
	return nil
}
