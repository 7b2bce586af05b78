// Package engine orchestrates the full computation:
// snapshot → dataset → reports → export sinks.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playlytics/kpiengine/pkg/common"
	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/metrics"
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/playlytics/kpiengine/pkg/service"
	"github.com/playlytics/kpiengine/pkg/snapshot"
	"github.com/sirupsen/logrus"
)

// ErrReportNotFound is returned by Run for an unknown report ID.
var ErrReportNotFound = errors.New("report not found")

// Manager runs registered reports over snapshots.
//
// Every run rebuilds the derived dataset from the snapshot; nothing derived
// persists between runs except the explicit result cache.
type Manager struct {
	provider      snapshot.Provider
	registry      *report.Registry
	exporter      *export.Executor
	cache         service.ResultCache // nil disables result caching
	reportExports map[string][]string // report ID → sink IDs
	cacheTTL      time.Duration
}

// NewManager creates an engine manager.
// reportExports maps report IDs to the sink IDs their tables go to.
func NewManager(
	provider snapshot.Provider,
	registry *report.Registry,
	exporter *export.Executor,
	reportExports map[string][]string,
	cache service.ResultCache,
	cacheTTL time.Duration,
) *Manager {
	if reportExports == nil {
		reportExports = make(map[string][]string)
	}

	return &Manager{
		provider:      provider,
		registry:      registry,
		exporter:      exporter,
		cache:         cache,
		reportExports: reportExports,
		cacheTTL:      cacheTTL,
	}
}

// Reports returns the registered reports, ordered by ID.
func (m *Manager) Reports() []report.Report {
	return m.registry.GetAll()
}

// BuildDataset loads the snapshot and derives the shared per-player view.
func (m *Manager) BuildDataset(ctx context.Context, now time.Time) (*report.Dataset, error) {
	scope := common.NewScope(ctx, "dataset.build")
	defer scope.Finish()

	snap, err := m.provider.Load(scope.Ctx)
	if err != nil {
		scope.TraceError(err)
		return nil, fmt.Errorf("snapshot load failed: %w", err)
	}

	metrics.SnapshotRecords.WithLabelValues("players").Set(float64(len(snap.Players)))
	metrics.SnapshotRecords.WithLabelValues("sessions").Set(float64(len(snap.Sessions)))
	metrics.SnapshotRecords.WithLabelValues("transactions").Set(float64(len(snap.Transactions)))

	ds := report.BuildDataset(snap, now)
	metrics.ObserveAnomalies(ds.Anomalies)

	scope.SetAttributes("players", len(snap.Players))
	scope.SetAttributes("anomalies", ds.Anomalies.Total())

	if total := ds.Anomalies.Total(); total > 0 {
		scope.Log.Warnf("dataset built with %d data-quality anomalies: %+v", total, ds.Anomalies)
	}

	return ds, nil
}

// Run computes a single report, consulting the result cache first.
func (m *Manager) Run(ctx context.Context, reportID string, now time.Time) (*report.Table, error) {
	rep := m.registry.Get(reportID)
	if rep == nil {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
	}

	if m.cache != nil {
		cached, err := m.cache.GetTable(ctx, reportID)
		if err != nil {
			logrus.Warnf("result cache read failed for report %s: %v", reportID, err)
		} else if cached != nil {
			metrics.ReportsComputedTotal.WithLabelValues(reportID, "hit").Inc()
			return cached, nil
		}
	}

	ds, err := m.BuildDataset(ctx, now)
	if err != nil {
		return nil, err
	}

	table, err := m.compute(ctx, rep, ds)
	if err != nil {
		return nil, err
	}

	m.finish(ctx, table)
	return table, nil
}

// RunAll computes every registered report over one shared dataset.
// A failing report is logged and skipped; the batch continues.
func (m *Manager) RunAll(ctx context.Context, now time.Time) ([]*report.Table, error) {
	ds, err := m.BuildDataset(ctx, now)
	if err != nil {
		return nil, err
	}

	var tables []*report.Table
	for _, rep := range m.registry.GetAll() {
		table, err := m.compute(ctx, rep, ds)
		if err != nil {
			logrus.Errorf("report %s failed: %v", rep.ID(), err)
			continue
		}
		m.finish(ctx, table)
		tables = append(tables, table)
	}

	return tables, nil
}

// compute runs one report over the dataset inside a span.
func (m *Manager) compute(ctx context.Context, rep report.Report, ds *report.Dataset) (*report.Table, error) {
	scope := common.NewScope(ctx, "report.compute")
	defer scope.Finish()
	scope.AddBaggage("report_id", rep.ID())

	start := time.Now()
	table, err := rep.Compute(scope.Ctx, ds)
	if err != nil {
		scope.TraceError(err)
		return nil, fmt.Errorf("report %s failed: %w", rep.ID(), err)
	}

	table.Anomalies = ds.Anomalies
	table.GeneratedAt = time.Now().UTC()

	elapsed := time.Since(start)
	metrics.ReportComputeDuration.WithLabelValues(rep.ID()).Observe(elapsed.Seconds())
	metrics.ReportsComputedTotal.WithLabelValues(rep.ID(), "miss").Inc()

	scope.Log.Infof("computed report %s: %d rows in %v", rep.ID(), len(table.Rows), elapsed)
	return table, nil
}

// finish caches a computed table and dispatches its export sinks.
func (m *Manager) finish(ctx context.Context, table *report.Table) {
	if m.cache != nil {
		if err := m.cache.SetTable(ctx, table, m.cacheTTL); err != nil {
			logrus.Warnf("result cache write failed for report %s: %v", table.ReportID, err)
		}
	}

	sinkIDs := m.reportExports[table.ReportID]
	if len(sinkIDs) == 0 || m.exporter == nil {
		return
	}
	if failed := m.exporter.ExportMultiple(ctx, sinkIDs, table); failed > 0 {
		metrics.ExportFailuresTotal.WithLabelValues(table.ReportID).Add(float64(failed))
	}
}
