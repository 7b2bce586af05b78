package builtin

import (
	"context"
	"fmt"
	"sort"

	"github.com/playlytics/kpiengine/pkg/report"
)

// TypeRevenueCorrelation is the report type for revenue/engagement tables.
const TypeRevenueCorrelation = "revenue_correlation"

// RevenueCorrelationReport correlates revenue with a grouping dimension:
// platform, acquisition source, D7 retention segment, or churn-risk tier.
// Players without transactions contribute zero revenue but stay in every
// denominator, and players without sessions still carry their revenue.
type RevenueCorrelationReport struct {
	config report.Config
}

// NewRevenueCorrelationReport creates a revenue correlation report.
func NewRevenueCorrelationReport(config report.Config) (*RevenueCorrelationReport, error) {
	switch config.GroupBy {
	case "", "platform", "source", "d7_segment", "risk_tier":
	default:
		return nil, fmt.Errorf("revenue_correlation: unsupported group_by %q", config.GroupBy)
	}
	return &RevenueCorrelationReport{config: config}, nil
}

// ID returns the report identifier.
func (r *RevenueCorrelationReport) ID() string {
	return r.config.ID
}

// Name returns the report name.
func (r *RevenueCorrelationReport) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Revenue Correlation"
}

// Config returns the report configuration.
func (r *RevenueCorrelationReport) Config() report.Config {
	return r.config
}

// groupKey returns the grouping bucket for a player.
func (r *RevenueCorrelationReport) groupKey(ds *report.Dataset, playerID string, tiers TierConfig) string {
	switch r.config.GroupBy {
	case "source":
		return sourceOf(ds, playerID)
	case "d7_segment":
		if ds.RecordOf(playerID).Returned(RetentionDay7) {
			return "D7 Retained"
		}
		return "Not D7 Retained"
	case "risk_tier":
		days, active := ds.RecordOf(playerID).DaysSinceLast(ds.Now)
		if !active {
			return TierNeverActive
		}
		return Classify(days, tiers)
	default: // platform
		if p := ds.Players[playerID]; p != nil && p.Platform != "" {
			return p.Platform
		}
		return "unknown"
	}
}

// Compute builds one row per group, ordered by total revenue descending.
func (r *RevenueCorrelationReport) Compute(ctx context.Context, ds *report.Dataset) (*report.Table, error) {
	tiers := tierConfigFrom(r.config)

	type groupAgg struct {
		players      int
		active       int
		paying       int
		totalRevenue float64
	}
	groups := make(map[string]*groupAgg)

	for playerID := range ds.Players {
		key := r.groupKey(ds, playerID, tiers)
		g := groups[key]
		if g == nil {
			g = &groupAgg{}
			groups[key] = g
		}

		g.players++
		if ds.RecordOf(playerID).SessionCount > 0 {
			g.active++
		}
		if rev := ds.RevenueOf(playerID); rev.Paying() {
			g.paying++
			g.totalRevenue += rev.Total
		}
	}

	table := &report.Table{
		ReportID: r.ID(),
		Name:     r.Name(),
		Columns: []string{
			"group", "players", "paying_players", "total_revenue",
			"revenue_per_user", "arppu", "conversion_rate_pct", "activity_rate_pct",
		},
	}

	for key, g := range groups {
		table.Rows = append(table.Rows, report.Row{
			"group":               key,
			"players":             g.players,
			"paying_players":      g.paying,
			"total_revenue":       g.totalRevenue,
			"revenue_per_user":    report.PerUser(g.totalRevenue, g.players),
			"arppu":               report.PerUser(g.totalRevenue, g.paying),
			"conversion_rate_pct": report.Pct(g.paying, g.players),
			"activity_rate_pct":   report.Pct(g.active, g.players),
		})
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		ri := table.Rows[i]["total_revenue"].(float64)
		rj := table.Rows[j]["total_revenue"].(float64)
		if ri != rj {
			return ri > rj
		}
		return table.Rows[i]["group"].(string) < table.Rows[j]["group"].(string)
	})

	return table, nil
}
