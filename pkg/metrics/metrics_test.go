package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/metrics"
)

func TestIncComparison(t *testing.T) {
	before := testutil.ToFloat64(metrics.ComparisonsCount.WithLabelValues(metrics.VerdictBlocked))

	metrics.IncComparison(false)

	after := testutil.ToFloat64(metrics.ComparisonsCount.WithLabelValues(metrics.VerdictBlocked))
	assert.Equal(t, before+1, after)
}

func TestWriteTextfile(t *testing.T) {
	t.Run("empty path is a no-op", func(t *testing.T) {
		assert.NoError(t, metrics.WriteTextfile(""))
	})

	t.Run("writes text exposition format", func(t *testing.T) {
		metrics.IncRow("Success")
		path := filepath.Join(t.TempDir(), "appsvcmigrator.prom")

		require.NoError(t, metrics.WriteTextfile(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `appsvcmigrator_rows_processed_count{status="Success"}`)
	})
}
