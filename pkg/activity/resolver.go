// Package activity derives per-player activity records from raw sessions.
//
// The resolver computes, for every player, the set of distinct non-negative
// day offsets (session date minus install date, in calendar days) and the
// most recent activity date. Retention flags are exact-match: Returned(7)
// requires activity on day 7 itself, activity on day 8 does not count.
package activity

import (
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/sirupsen/logrus"
)

// Record is the derived activity summary for one player.
type Record struct {
	PlayerID string

	// Offsets holds the distinct non-negative day offsets with at least one
	// session. Pre-install sessions are excluded and counted as anomalies.
	Offsets map[int]struct{}

	// LastActivity is the most recent valid session date, zero if the player
	// never had a valid session.
	LastActivity time.Time

	// SessionCount counts the valid sessions attributed to this player.
	SessionCount int
}

// Returned reports whether the player was active on exactly day n.
func (r *Record) Returned(n int) bool {
	if r == nil {
		return false
	}
	_, ok := r.Offsets[n]
	return ok
}

// ActiveWithin reports whether the player has any offset in [from, to].
func (r *Record) ActiveWithin(from, to int) bool {
	if r == nil {
		return false
	}
	for offset := range r.Offsets {
		if offset >= from && offset <= to {
			return true
		}
	}
	return false
}

// DaysSinceLast returns the whole days between the last valid session and
// now, and false if the player never had a valid session.
func (r *Record) DaysSinceLast(now time.Time) (int, bool) {
	if r == nil || r.LastActivity.IsZero() {
		return 0, false
	}
	return dayDelta(r.LastActivity, now), true
}

// Anomalies counts the data-quality violations found while resolving.
// They are diagnostics, never fatal.
type Anomalies struct {
	// MissingPlayerRefs counts sessions referencing an unknown player ID.
	MissingPlayerRefs int

	// InvalidSessionDates counts sessions with a zero date.
	InvalidSessionDates int

	// NegativeOffsets counts sessions dated before the player's install.
	NegativeOffsets int
}

// Result is the output of one resolver pass.
type Result struct {
	// ByPlayer has a record for every known player, including players with
	// zero valid sessions. Zero-session players keep correct denominators in
	// downstream aggregations.
	ByPlayer map[string]*Record

	Anomalies Anomalies
}

// Resolve computes activity records for all players in one pass over the
// sessions. Sessions referencing unknown players, undated sessions, and
// pre-install sessions are excluded from the records and counted in
// Result.Anomalies.
func Resolve(players map[string]*model.Player, sessions []model.Session) *Result {
	result := &Result{
		ByPlayer: make(map[string]*Record, len(players)),
	}

	for id := range players {
		result.ByPlayer[id] = &Record{
			PlayerID: id,
			Offsets:  make(map[int]struct{}),
		}
	}

	for i := range sessions {
		s := &sessions[i]

		player, known := players[s.PlayerID]
		if !known {
			result.Anomalies.MissingPlayerRefs++
			logrus.Debugf("session %s references unknown player %s", s.ID, s.PlayerID)
			continue
		}

		if s.Date.IsZero() {
			result.Anomalies.InvalidSessionDates++
			continue
		}

		record := result.ByPlayer[s.PlayerID]

		// Offsets need a valid install date. Players without one are already
		// excluded from cohorts; their recency is still tracked below.
		if !player.InstalledAt.IsZero() {
			offset := dayDelta(player.InstalledAt, s.Date)
			if offset < 0 {
				result.Anomalies.NegativeOffsets++
				logrus.Debugf("session %s predates install of player %s (offset %d)", s.ID, s.PlayerID, offset)
				continue
			}
			record.Offsets[offset] = struct{}{}
		}

		record.SessionCount++
		if s.Date.After(record.LastActivity) {
			record.LastActivity = s.Date
		}
	}

	return result
}

// dayDelta returns the calendar-day difference to - from, ignoring the
// time-of-day component of both timestamps.
func dayDelta(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
