package builtin

import (
	"fmt"
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/playlytics/kpiengine/pkg/report"
)

// Shared fixtures for the builtin report tests.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dataset builds a dataset from raw snapshot rows with a fixed reference time.
func dataset(now time.Time, players []model.Player, sessions []model.Session, txns []model.Transaction) *report.Dataset {
	snap := &model.Snapshot{
		Players:      players,
		Sessions:     sessions,
		Transactions: txns,
	}
	return report.BuildDataset(snap, now)
}

// sessionsOn creates one session per given day offset from install.
func sessionsOn(playerID string, install time.Time, offsets ...int) []model.Session {
	sessions := make([]model.Session, 0, len(offsets))
	for i, offset := range offsets {
		sessions = append(sessions, model.Session{
			ID:       fmt.Sprintf("%s-s%d", playerID, i),
			PlayerID: playerID,
			Date:     install.AddDate(0, 0, offset),
		})
	}
	return sessions
}

// pctValue unwraps a *float64 cell, returning -1 for nil.
func pctValue(row report.Row, column string) float64 {
	v, ok := row[column].(*float64)
	if !ok || v == nil {
		return -1
	}
	return *v
}

// findRow returns the first row whose column equals value, nil if absent.
func findRow(rows []report.Row, column string, value interface{}) report.Row {
	for _, row := range rows {
		if row[column] == value {
			return row
		}
	}
	return nil
}
