package builtin

import (
	"context"

	"github.com/playlytics/kpiengine/pkg/report"
)

const (
	// TypeChurnRisk is the report type for the churn-risk distribution.
	TypeChurnRisk = "churn_risk"

	// Default tier boundaries, in days since last session. Each boundary is
	// inclusive: exactly 14 days is Medium Risk, not High Risk. Source
	// reports disagree on the Active boundary (3 vs 7 days); 3 is the
	// default and 7 stays reachable via the active_max_days parameter.
	DefaultActiveMaxDays  = 3
	DefaultLowMaxDays     = 7
	DefaultMediumMaxDays  = 14
	DefaultChurnedAfter   = 30
	DefaultIncludeChurned = true
)

// Tier names, in increasing disengagement order.
const (
	TierActive      = "Active"
	TierLowRisk     = "Low Risk"
	TierMediumRisk  = "Medium Risk"
	TierHighRisk    = "High Risk"
	TierChurned     = "Churned"
	TierNeverActive = "Never Active"
)

// TierConfig holds the classification boundaries.
type TierConfig struct {
	ActiveMaxDays  int
	LowMaxDays     int
	MediumMaxDays  int
	ChurnedAfter   int
	IncludeChurned bool
}

// DefaultTierConfig returns the default boundaries.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		ActiveMaxDays:  DefaultActiveMaxDays,
		LowMaxDays:     DefaultLowMaxDays,
		MediumMaxDays:  DefaultMediumMaxDays,
		ChurnedAfter:   DefaultChurnedAfter,
		IncludeChurned: DefaultIncludeChurned,
	}
}

// tierConfigFrom reads boundaries from report parameters, falling back to
// the defaults.
func tierConfigFrom(config report.Config) TierConfig {
	return TierConfig{
		ActiveMaxDays:  config.GetInt("active_max_days", DefaultActiveMaxDays),
		LowMaxDays:     config.GetInt("low_max_days", DefaultLowMaxDays),
		MediumMaxDays:  config.GetInt("medium_max_days", DefaultMediumMaxDays),
		ChurnedAfter:   config.GetInt("churned_after_days", DefaultChurnedAfter),
		IncludeChurned: config.GetBool("include_churned", DefaultIncludeChurned),
	}
}

// Classify maps days-since-last-session to a risk tier. It is a total,
// deterministic step function: every non-negative input lands in exactly
// one tier.
func Classify(daysSinceLast int, cfg TierConfig) string {
	switch {
	case daysSinceLast <= cfg.ActiveMaxDays:
		return TierActive
	case daysSinceLast <= cfg.LowMaxDays:
		return TierLowRisk
	case daysSinceLast <= cfg.MediumMaxDays:
		return TierMediumRisk
	case cfg.IncludeChurned && daysSinceLast > cfg.ChurnedAfter:
		return TierChurned
	default:
		return TierHighRisk
	}
}

// ChurnRiskReport buckets every player into a risk tier by recency of last
// activity. Players who never had a valid session land in a dedicated
// Never Active bucket so the share percentages keep an honest base.
type ChurnRiskReport struct {
	config report.Config
}

// NewChurnRiskReport creates a churn-risk distribution report.
func NewChurnRiskReport(config report.Config) *ChurnRiskReport {
	return &ChurnRiskReport{config: config}
}

// ID returns the report identifier.
func (r *ChurnRiskReport) ID() string {
	return r.config.ID
}

// Name returns the report name.
func (r *ChurnRiskReport) Name() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return "Churn Risk Distribution"
}

// Config returns the report configuration.
func (r *ChurnRiskReport) Config() report.Config {
	return r.config
}

// Compute builds one row per tier, ordered from Active to Never Active.
func (r *ChurnRiskReport) Compute(ctx context.Context, ds *report.Dataset) (*report.Table, error) {
	cfg := tierConfigFrom(r.config)

	counts := make(map[string]int)
	total := 0
	for playerID := range ds.Players {
		total++
		record := ds.RecordOf(playerID)
		days, active := record.DaysSinceLast(ds.Now)
		if !active {
			counts[TierNeverActive]++
			continue
		}
		counts[Classify(days, cfg)]++
	}

	table := &report.Table{
		ReportID: r.ID(),
		Name:     r.Name(),
		Columns:  []string{"risk_tier", "players", "share_pct"},
	}

	order := []string{TierActive, TierLowRisk, TierMediumRisk, TierHighRisk, TierChurned, TierNeverActive}
	for _, tier := range order {
		if tier == TierChurned && !cfg.IncludeChurned {
			continue
		}
		table.Rows = append(table.Rows, report.Row{
			"risk_tier": tier,
			"players":   counts[tier],
			"share_pct": report.Pct(counts[tier], total),
		})
	}

	return table, nil
}
