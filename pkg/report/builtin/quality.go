package builtin

import (
	"context"
	"fmt"
	"sort"

	"github.com/playlytics/kpiengine/pkg/report"
)

const (
	// TypeRetentionQuality is the report type for the weighted quality score.
	TypeRetentionQuality = "retention_quality"

	// Default blend weights over D1/D7/D30 fractional retention. These are
	// design constants, exposed as overridable report parameters.
	DefaultWeightD1  = 0.3
	DefaultWeightD7  = 0.5
	DefaultWeightD30 = 0.2
)

// RetentionQualityReport ranks groups (cohorts or acquisition sources) by a
// single blended stickiness score:
//
//	score = 100 × (w1×r1 + w7×r7 + w30×r30)
//
// where rN is the fractional exact-match retention rate of the group. The
// score is monotonically non-decreasing in each rate individually.
type RetentionQualityReport struct {
	config report.Config
}

// NewRetentionQualityReport creates a retention quality report.
func NewRetentionQualityReport(config report.Config) (*RetentionQualityReport, error) {
	switch config.GroupBy {
	case "", "cohort", "source":
	default:
		return nil, fmt.Errorf("retention_quality: unsupported group_by %q", config.GroupBy)
	}
	return &RetentionQualityReport{config: config}, nil
}

// ID returns the report identifier.
func (r *RetentionQualityReport) ID() string {
	return r.config.ID
}

// Name returns the report name.
func (r *RetentionQualityReport) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Retention Quality Score"
}

// Config returns the report configuration.
func (r *RetentionQualityReport) Config() report.Config {
	return r.config
}

// Compute builds one row per group, ordered by score descending.
// Only cohort-assigned players participate: without a valid install date a
// retention offset is undefined.
func (r *RetentionQualityReport) Compute(ctx context.Context, ds *report.Dataset) (*report.Table, error) {
	w1 := r.config.GetFloat("weight_d1", DefaultWeightD1)
	w7 := r.config.GetFloat("weight_d7", DefaultWeightD7)
	w30 := r.config.GetFloat("weight_d30", DefaultWeightD30)

	type groupCounts struct {
		players, d1, d7, d30 int
	}
	groups := make(map[string]*groupCounts)

	for playerID, cohortKey := range ds.Cohorts.KeyByPlayer {
		key := cohortKey
		if r.config.GroupBy == "source" {
			key = sourceOf(ds, playerID)
		}

		g := groups[key]
		if g == nil {
			g = &groupCounts{}
			groups[key] = g
		}

		g.players++
		record := ds.RecordOf(playerID)
		if record.Returned(RetentionDay1) {
			g.d1++
		}
		if record.Returned(RetentionDay7) {
			g.d7++
		}
		if record.Returned(RetentionDay30) {
			g.d30++
		}
	}

	table := &report.Table{
		ReportID: r.ID(),
		Name:     r.Name(),
		Columns:  []string{"group", "players", "d1_rate", "d7_rate", "d30_rate", "quality_score"},
	}

	for key, g := range groups {
		row := report.Row{
			"group":   key,
			"players": g.players,
		}
		if g.players == 0 {
			row["d1_rate"] = (*float64)(nil)
			row["d7_rate"] = (*float64)(nil)
			row["d30_rate"] = (*float64)(nil)
			row["quality_score"] = (*float64)(nil)
		} else {
			r1 := float64(g.d1) / float64(g.players)
			r7 := float64(g.d7) / float64(g.players)
			r30 := float64(g.d30) / float64(g.players)
			row["d1_rate"] = report.Float(r1)
			row["d7_rate"] = report.Float(r7)
			row["d30_rate"] = report.Float(r30)
			row["quality_score"] = report.Float(100 * (w1*r1 + w7*r7 + w30*r30))
		}
		table.Rows = append(table.Rows, row)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		si := table.Rows[i]["quality_score"].(*float64)
		sj := table.Rows[j]["quality_score"].(*float64)
		switch {
		case si == nil && sj == nil:
		case si == nil:
			return false
		case sj == nil:
			return true
		case *si != *sj:
			return *si > *sj
		}
		return table.Rows[i]["group"].(string) < table.Rows[j]["group"].(string)
	})

	return table, nil
}

// sourceOf returns the acquisition source of a player, with a stable bucket
// for blank values.
func sourceOf(ds *report.Dataset, playerID string) string {
	if p := ds.Players[playerID]; p != nil && p.AcquisitionSource != "" {
		return p.AcquisitionSource
	}
	return "unknown"
}
