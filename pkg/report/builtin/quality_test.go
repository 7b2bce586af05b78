package builtin

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/playlytics/kpiengine/pkg/report"
)

func TestRetentionQuality_ScoreFormula(t *testing.T) {
	install := day(2024, time.January, 29)
	players := []model.Player{
		{ID: "p1", InstalledAt: install},
		{ID: "p2", InstalledAt: install},
	}

	// p1 retained on all three days, p2 on none: rates are all 0.5.
	sessions := sessionsOn("p1", install, 1, 7, 30)

	ds := dataset(day(2024, time.April, 1), players, sessions, nil)

	rep, err := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true, GroupBy: "cohort"})
	if err != nil {
		t.Fatalf("Failed to create report: %v", err)
	}
	table, err := rep.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	// score = 100 * (0.3*0.5 + 0.5*0.5 + 0.2*0.5) = 50
	if got := pctValue(row, "quality_score"); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("Expected quality score 50, got %f", got)
	}
	if got := pctValue(row, "d7_rate"); got != 0.5 {
		t.Errorf("Expected d7 rate 0.5, got %f", got)
	}
}

func TestRetentionQuality_CustomWeights(t *testing.T) {
	install := day(2024, time.January, 29)
	players := []model.Player{{ID: "p1", InstalledAt: install}}
	sessions := sessionsOn("p1", install, 1) // D1 only

	ds := dataset(day(2024, time.April, 1), players, sessions, nil)

	rep, _ := NewRetentionQualityReport(report.Config{
		ID:      "quality",
		Enabled: true,
		Parameters: map[string]interface{}{
			"weight_d1":  1.0,
			"weight_d7":  0.0,
			"weight_d30": 0.0,
		},
	})
	table, _ := rep.Compute(context.Background(), ds)

	if got := pctValue(table.Rows[0], "quality_score"); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("Expected score 100 with full D1 weight, got %f", got)
	}
}

func TestRetentionQuality_RanksByScoreDescending(t *testing.T) {
	good := day(2024, time.January, 29) // W05
	bad := day(2024, time.February, 5)  // W06
	players := []model.Player{
		{ID: "p1", InstalledAt: good},
		{ID: "p2", InstalledAt: bad},
	}

	sessions := sessionsOn("p1", good, 1, 7, 30)

	ds := dataset(day(2024, time.April, 1), players, sessions, nil)

	rep, _ := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true, GroupBy: "cohort"})
	table, _ := rep.Compute(context.Background(), ds)

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["group"] != "2024-W05" {
		t.Errorf("Expected best cohort first, got %v", table.Rows[0]["group"])
	}
	first := pctValue(table.Rows[0], "quality_score")
	second := pctValue(table.Rows[1], "quality_score")
	if first <= second {
		t.Errorf("Expected descending scores, got %f then %f", first, second)
	}
}

func TestRetentionQuality_ScoreMonotoneInEachRate(t *testing.T) {
	// Raising exactly one of the D1/D7/D30 counts, holding the other two
	// fixed, must never lower the score.
	install := day(2024, time.January, 29)
	now := day(2024, time.April, 1)
	players := []model.Player{
		{ID: "p1", InstalledAt: install},
		{ID: "p2", InstalledAt: install},
	}

	score := func(sessions []model.Session) float64 {
		ds := dataset(now, players, sessions, nil)
		rep, err := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true, GroupBy: "cohort"})
		if err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
		table, err := rep.Compute(context.Background(), ds)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		return pctValue(table.Rows[0], "quality_score")
	}

	// p1 retained on all three days fixes every rate at 0.5.
	baseSessions := sessionsOn("p1", install, 1, 7, 30)
	base := score(baseSessions)

	for _, bumpDay := range []int{RetentionDay1, RetentionDay7, RetentionDay30} {
		bumped := score(append(sessionsOn("p2", install, bumpDay), baseSessions...))
		if bumped < base {
			t.Errorf("Score decreased from %f to %f after raising only day-%d retention", base, bumped, bumpDay)
		}
		if bumped <= base {
			t.Errorf("Expected strictly higher score with positive day-%d weight, got %f vs %f", bumpDay, bumped, base)
		}
	}
}

func TestRetentionQuality_GroupBySource(t *testing.T) {
	install := day(2024, time.January, 29)
	players := []model.Player{
		{ID: "p1", InstalledAt: install, AcquisitionSource: "organic"},
		{ID: "p2", InstalledAt: install, AcquisitionSource: "paid"},
		{ID: "p3", InstalledAt: install}, // blank source
	}

	sessions := sessionsOn("p1", install, 1)

	ds := dataset(day(2024, time.April, 1), players, sessions, nil)

	rep, _ := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true, GroupBy: "source"})
	table, _ := rep.Compute(context.Background(), ds)

	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 source groups, got %d", len(table.Rows))
	}
	if findRow(table.Rows, "group", "unknown") == nil {
		t.Error("Expected blank sources bucketed as 'unknown'")
	}
	if findRow(table.Rows, "group", "organic") == nil {
		t.Error("Expected organic group")
	}
}

func TestRetentionQuality_RejectsUnsupportedGroupBy(t *testing.T) {
	_, err := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true, GroupBy: "platform"})
	if err == nil {
		t.Error("Expected error for unsupported group_by")
	}
}

func TestRetentionQuality_ExcludesPlayersWithoutInstallDate(t *testing.T) {
	players := []model.Player{
		{ID: "p1", InstalledAt: day(2024, time.January, 29)},
		{ID: "p2"}, // no install date, no defined offsets
	}

	ds := dataset(day(2024, time.April, 1), players, nil, nil)

	rep, _ := NewRetentionQualityReport(report.Config{ID: "quality", Enabled: true})
	table, _ := rep.Compute(context.Background(), ds)

	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(table.Rows))
	}
	if table.Rows[0]["players"] != 1 {
		t.Errorf("Expected only cohort-assigned player counted, got %v", table.Rows[0]["players"])
	}
}
