package activity

import (
	"testing"
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func playersByID(players ...model.Player) map[string]*model.Player {
	m := make(map[string]*model.Player, len(players))
	for i := range players {
		m[players[i].ID] = &players[i]
	}
	return m
}

func TestResolve_ExactMatchRetention(t *testing.T) {
	install := day(2024, time.January, 1)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})

	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: install},
		{ID: "s2", PlayerID: "p1", Date: install.AddDate(0, 0, 1)},
		{ID: "s3", PlayerID: "p1", Date: install.AddDate(0, 0, 7)},
		{ID: "s4", PlayerID: "p1", Date: install.AddDate(0, 0, 40)},
	}

	result := Resolve(players, sessions)
	record := result.ByPlayer["p1"]

	if !record.Returned(1) {
		t.Error("Expected player retained on day 1")
	}
	if !record.Returned(7) {
		t.Error("Expected player retained on day 7")
	}
	if record.Returned(30) {
		t.Error("Expected player not retained on day 30")
	}
	if record.SessionCount != 4 {
		t.Errorf("Expected 4 sessions, got %d", record.SessionCount)
	}
	if !record.LastActivity.Equal(install.AddDate(0, 0, 40)) {
		t.Errorf("Expected last activity on day 40, got %s", record.LastActivity)
	}
}

func TestResolve_Day8DoesNotCountAsDay7(t *testing.T) {
	install := day(2024, time.January, 1)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})

	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: install.AddDate(0, 0, 8)},
	}

	result := Resolve(players, sessions)
	record := result.ByPlayer["p1"]

	if record.Returned(7) {
		t.Error("Activity on day 8 must not count as day-7 retention")
	}
	if !record.Returned(8) {
		t.Error("Expected offset 8 recorded")
	}
}

func TestResolve_DuplicateSessionsSameDay(t *testing.T) {
	install := day(2024, time.January, 1)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})

	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: install.AddDate(0, 0, 7)},
		{ID: "s2", PlayerID: "p1", Date: install.AddDate(0, 0, 7)},
	}

	result := Resolve(players, sessions)
	record := result.ByPlayer["p1"]

	if len(record.Offsets) != 1 {
		t.Errorf("Expected 1 distinct offset, got %d", len(record.Offsets))
	}
	if record.SessionCount != 2 {
		t.Errorf("Expected 2 sessions counted, got %d", record.SessionCount)
	}
}

func TestResolve_ZeroSessionPlayerGetsRecord(t *testing.T) {
	players := playersByID(
		model.Player{ID: "p1", InstalledAt: day(2024, time.January, 1)},
		model.Player{ID: "p2", InstalledAt: day(2024, time.January, 2)},
	)

	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: day(2024, time.January, 2)},
	}

	result := Resolve(players, sessions)

	record := result.ByPlayer["p2"]
	if record == nil {
		t.Fatal("Expected a record for the zero-session player")
	}
	if record.SessionCount != 0 {
		t.Errorf("Expected 0 sessions, got %d", record.SessionCount)
	}
	if _, active := record.DaysSinceLast(day(2024, time.February, 1)); active {
		t.Error("Expected zero-session player to report no activity")
	}
}

func TestResolve_AnomalyCounting(t *testing.T) {
	install := day(2024, time.January, 10)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})

	sessions := []model.Session{
		{ID: "s1", PlayerID: "ghost", Date: install},            // unknown player
		{ID: "s2", PlayerID: "p1"},                              // zero date
		{ID: "s3", PlayerID: "p1", Date: install.AddDate(0, 0, -3)}, // pre-install
		{ID: "s4", PlayerID: "p1", Date: install.AddDate(0, 0, 1)},
	}

	result := Resolve(players, sessions)

	if result.Anomalies.MissingPlayerRefs != 1 {
		t.Errorf("Expected 1 missing player ref, got %d", result.Anomalies.MissingPlayerRefs)
	}
	if result.Anomalies.InvalidSessionDates != 1 {
		t.Errorf("Expected 1 invalid session date, got %d", result.Anomalies.InvalidSessionDates)
	}
	if result.Anomalies.NegativeOffsets != 1 {
		t.Errorf("Expected 1 negative offset, got %d", result.Anomalies.NegativeOffsets)
	}

	record := result.ByPlayer["p1"]
	if record.SessionCount != 1 {
		t.Errorf("Expected only the valid session counted, got %d", record.SessionCount)
	}
	if record.Returned(0) {
		t.Error("Pre-install session must not produce an offset")
	}
}

func TestRecord_DaysSinceLast(t *testing.T) {
	install := day(2024, time.January, 1)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})
	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: day(2024, time.January, 15)},
	}

	result := Resolve(players, sessions)
	record := result.ByPlayer["p1"]

	days, active := record.DaysSinceLast(day(2024, time.January, 29))
	if !active {
		t.Fatal("Expected player to have activity")
	}
	if days != 14 {
		t.Errorf("Expected 14 days since last session, got %d", days)
	}

	// Time of day is ignored.
	days, _ = record.DaysSinceLast(time.Date(2024, time.January, 29, 23, 59, 0, 0, time.UTC))
	if days != 14 {
		t.Errorf("Expected 14 days regardless of time of day, got %d", days)
	}
}

func TestRecord_ActiveWithin(t *testing.T) {
	install := day(2024, time.January, 1)
	players := playersByID(model.Player{ID: "p1", InstalledAt: install})
	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", Date: install.AddDate(0, 0, 5)},
	}

	result := Resolve(players, sessions)
	record := result.ByPlayer["p1"]

	if !record.ActiveWithin(0, 7) {
		t.Error("Expected activity within [0,7]")
	}
	if !record.ActiveWithin(5, 5) {
		t.Error("Expected boundaries to be inclusive")
	}
	if record.ActiveWithin(6, 7) {
		t.Error("Expected no activity within [6,7]")
	}
}

func TestRecord_NilSafety(t *testing.T) {
	var record *Record

	if record.Returned(1) {
		t.Error("Expected nil record to report not returned")
	}
	if record.ActiveWithin(0, 7) {
		t.Error("Expected nil record to report inactive")
	}
	if _, active := record.DaysSinceLast(time.Now()); active {
		t.Error("Expected nil record to report no activity")
	}
}
