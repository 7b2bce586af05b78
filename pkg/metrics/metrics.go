// Package metrics defines the engine's Prometheus collectors.
package metrics

import (
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ReportsComputedTotal counts report computations, split by cache outcome.
	ReportsComputedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpiengine_reports_computed_total",
			Help: "Total number of report computations",
		},
		[]string{"report_id", "cache"},
	)

	// ReportComputeDuration observes wall time per report computation.
	ReportComputeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kpiengine_report_compute_duration_seconds",
			Help:    "Report computation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report_id"},
	)

	// SnapshotRecords tracks the size of the last loaded snapshot per entity.
	SnapshotRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kpiengine_snapshot_records",
			Help: "Records in the last loaded snapshot",
		},
		[]string{"entity"},
	)

	// AnomaliesLastRun tracks the data-quality anomaly counts of the last run.
	AnomaliesLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kpiengine_anomalies_last_run",
			Help: "Data-quality anomalies observed in the last dataset build",
		},
		[]string{"kind"},
	)

	// ExportFailuresTotal counts failed sink exports.
	ExportFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpiengine_export_failures_total",
			Help: "Total number of failed report exports",
		},
		[]string{"report_id"},
	)
)

// Register registers all engine collectors with a registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		ReportsComputedTotal,
		ReportComputeDuration,
		SnapshotRecords,
		AnomaliesLastRun,
		ExportFailuresTotal,
	)
}

// ObserveAnomalies publishes an anomaly summary to the gauges.
func ObserveAnomalies(a report.AnomalySummary) {
	AnomaliesLastRun.WithLabelValues("invalid_install_dates").Set(float64(a.InvalidInstallDates))
	AnomaliesLastRun.WithLabelValues("invalid_session_dates").Set(float64(a.InvalidSessionDates))
	AnomaliesLastRun.WithLabelValues("invalid_transaction_dates").Set(float64(a.InvalidTransactionDates))
	AnomaliesLastRun.WithLabelValues("missing_player_sessions").Set(float64(a.MissingPlayerSessions))
	AnomaliesLastRun.WithLabelValues("missing_player_txns").Set(float64(a.MissingPlayerTxns))
	AnomaliesLastRun.WithLabelValues("negative_offsets").Set(float64(a.NegativeOffsets))
	AnomaliesLastRun.WithLabelValues("negative_amounts").Set(float64(a.NegativeAmounts))
	AnomaliesLastRun.WithLabelValues("duplicate_players").Set(float64(a.DuplicatePlayers))
}
