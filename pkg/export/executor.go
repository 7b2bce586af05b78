package export

import (
	"context"
	"fmt"

	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/sirupsen/logrus"
)

// Executor dispatches computed tables to sinks.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new sink executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Export runs a single sink for a table.
func (e *Executor) Export(ctx context.Context, sinkID string, table *report.Table) error {
	sink := e.registry.Get(sinkID)
	if sink == nil {
		return fmt.Errorf("sink not found: %s", sinkID)
	}

	logrus.Infof("exporting report %s via sink %s", table.ReportID, sinkID)

	if err := sink.Export(ctx, table); err != nil {
		logrus.Errorf("sink %s failed for report %s: %v", sinkID, table.ReportID, err)
		return err
	}

	return nil
}

// ExportMultiple runs all listed sinks for a table in sequence.
// Failing sinks are logged and skipped; the failure count is returned so
// callers can surface it without aborting the computation.
func (e *Executor) ExportMultiple(ctx context.Context, sinkIDs []string, table *report.Table) int {
	failed := 0
	for _, sinkID := range sinkIDs {
		if err := e.Export(ctx, sinkID, table); err != nil {
			failed++
		}
	}
	return failed
}
