package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nais/appsvcmigrator/pkg/config"
	"github.com/nais/appsvcmigrator/pkg/report"
)

type document struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Version string   `json:"version"`
	Tags    []string `json:"tags"`
}

var doc = document{Name: "app", Count: 2, Version: "1.2", Tags: []string{"a", "b"}}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, "name: app\n")
	assert.Contains(t, out, "count: 2\n")
	assert.NotContains(t, out, "{")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("name:")), bytes.Index(buf.Bytes(), []byte("count:")))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1.2", decoded["version"])
	assert.Equal(t, 2, decoded["count"])
	assert.Equal(t, []any{"a", "b"}, decoded["tags"])
}

func TestWrite(t *testing.T) {
	lines := []string{"first", "second"}

	for _, tt := range []struct {
		format string
		want   string
	}{
		{config.FormatText, "first\nsecond\n"},
		{config.FormatJSON, "{\n  \"name\": \"app\",\n  \"count\": 2,\n  \"version\": \"1.2\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"},
	} {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, report.Write(&buf, tt.format, lines, doc))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, report.WriteFile(path, config.FormatText, []string{"[-] missing"}, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[-] missing\n", string(content))

	assert.Error(t, report.WriteFile(filepath.Join(t.TempDir(), "missing", "report.txt"), config.FormatText, nil, nil))
}
