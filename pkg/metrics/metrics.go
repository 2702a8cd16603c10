package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	labelCommand  = "command"
	labelStatus   = "status"
	labelVerdict  = "verdict"
	labelCategory = "category"
)

const (
	VerdictReady   = "ready"
	VerdictBlocked = "blocked"
)

var (
	RowsProcessedCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appsvcmigrator_rows_processed_count",
			Help: "Number of migration rows processed, by resulting import status",
		},
		[]string{labelStatus},
	)
	AppsProcessedCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appsvcmigrator_apps_processed_count",
			Help: "Number of apps processed",
		},
		[]string{labelCommand},
	)
	ComparisonsCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appsvcmigrator_comparisons_count",
			Help: "Number of source/target comparisons, by production readiness verdict",
		},
		[]string{labelVerdict},
	)
	ReadFailuresCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appsvcmigrator_read_failures_count",
			Help: "Number of configuration category reads that failed and were degraded to no data",
		},
		[]string{labelCategory},
	)
	SettingsWrittenCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appsvcmigrator_settings_written_count",
			Help: "Number of settings added or updated on target apps",
		},
	)
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		RowsProcessedCount,
		AppsProcessedCount,
		ComparisonsCount,
		ReadFailuresCount,
		SettingsWrittenCount,
	)
}

func IncRow(status string) {
	RowsProcessedCount.With(prometheus.Labels{labelStatus: status}).Inc()
}

func IncApp(command string) {
	AppsProcessedCount.With(prometheus.Labels{labelCommand: command}).Inc()
}

func IncComparison(ready bool) {
	verdict := VerdictBlocked
	if ready {
		verdict = VerdictReady
	}
	ComparisonsCount.With(prometheus.Labels{labelVerdict: verdict}).Inc()
}

func IncReadFailure(category string) {
	ReadFailuresCount.With(prometheus.Labels{labelCategory: category}).Inc()
}

// WriteTextfile writes all collected metrics in the text exposition format, for pickup by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if len(path) == 0 {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics to '%s': %w", path, err)
	}
	log.Debugf("wrote metrics to %s", path)
	return nil
}
