package builtin

import (
	"context"

	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/sirupsen/logrus"
)

const (
	// TypeRetentionByCohort is the report type for cohort retention tables.
	TypeRetentionByCohort = "retention_by_cohort"

	// Exact-match retention day offsets. Returned(7) means activity on day 7
	// itself; being active on day 8 does not make a player D7-retained.
	RetentionDay1  = 1
	RetentionDay7  = 7
	RetentionDay30 = 30

	// DefaultWeek1IncludesInstallDay controls whether the week-1 activity
	// window starts at day 0 (install day) or day 1. Source reports disagree;
	// the inclusive reading is the default.
	DefaultWeek1IncludesInstallDay = true
)

// RetentionByCohortReport computes exact-match D1/D7/D30 retention per
// install-week cohort, plus a week-1 activity rate. Cohort size is the
// distinct player count, so zero-session players stay in every denominator.
type RetentionByCohortReport struct {
	config report.Config
}

// NewRetentionByCohortReport creates a cohort retention report.
func NewRetentionByCohortReport(config report.Config) *RetentionByCohortReport {
	return &RetentionByCohortReport{config: config}
}

// ID returns the report identifier.
func (r *RetentionByCohortReport) ID() string {
	return r.config.ID
}

// Name returns the report name.
func (r *RetentionByCohortReport) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Retention by Cohort"
}

// Config returns the report configuration.
func (r *RetentionByCohortReport) Config() report.Config {
	return r.config
}

// Compute builds one row per cohort, in chronological cohort order.
func (r *RetentionByCohortReport) Compute(ctx context.Context, ds *report.Dataset) (*report.Table, error) {
	minSize := r.config.GetInt("min_cohort_size", 0)
	week1From := 1
	if r.config.GetBool("week1_includes_install_day", DefaultWeek1IncludesInstallDay) {
		week1From = 0
	}

	table := &report.Table{
		ReportID: r.ID(),
		Name:     r.Name(),
		Columns: []string{
			"cohort", "cohort_size",
			"d1_retained", "d1_retention_pct",
			"d7_retained", "d7_retention_pct",
			"d30_retained", "d30_retention_pct",
			"week1_active_pct",
		},
	}

	for _, key := range ds.Cohorts.Keys() {
		members := ds.Cohorts.Cohorts[key]
		size := len(members)
		if size < minSize {
			logrus.Debugf("cohort %s below min size (%d < %d), skipped", key, size, minSize)
			continue
		}

		var d1, d7, d30, week1 int
		for _, playerID := range members {
			record := ds.RecordOf(playerID)
			if record.Returned(RetentionDay1) {
				d1++
			}
			if record.Returned(RetentionDay7) {
				d7++
			}
			if record.Returned(RetentionDay30) {
				d30++
			}
			if record.ActiveWithin(week1From, 7) {
				week1++
			}
		}

		table.Rows = append(table.Rows, report.Row{
			"cohort":            key,
			"cohort_size":       size,
			"d1_retained":       d1,
			"d1_retention_pct":  report.Pct(d1, size),
			"d7_retained":       d7,
			"d7_retention_pct":  report.Pct(d7, size),
			"d30_retained":      d30,
			"d30_retention_pct": report.Pct(d30, size),
			"week1_active_pct":  report.Pct(week1, size),
		})
	}

	return table, nil
}
