package model

import (
	"time"
)

// Player is a single installed player from the snapshot.
// InstalledAt is fixed at creation and never changes. A zero InstalledAt
// means the install date was missing or unparseable in the source data.
type Player struct {
	ID                string    `json:"id"`
	InstalledAt       time.Time `json:"installedAt"`
	Platform          string    `json:"platform"`
	Country           string    `json:"country"`
	AcquisitionSource string    `json:"acquisitionSource"`
}

// Session is a single play session. A zero Date means the session date was
// missing or unparseable in the source data.
type Session struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"playerId"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Transaction is a single purchase. Amount is a non-negative currency value;
// negative amounts in the source data are data-quality violations.
type Transaction struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"playerId"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
}

// Snapshot is a fully materialized, read-only copy of the three source
// collections. All aggregation runs against a snapshot; nothing in the
// engine mutates it.
type Snapshot struct {
	Players      []Player      `json:"players"`
	Sessions     []Session     `json:"sessions"`
	Transactions []Transaction `json:"transactions"`
}

// PlayerByID builds a lookup map keyed by player ID.
// Duplicate IDs keep the first occurrence.
func (s *Snapshot) PlayerByID() map[string]*Player {
	byID := make(map[string]*Player, len(s.Players))
	for i := range s.Players {
		p := &s.Players[i]
		if _, exists := byID[p.ID]; !exists {
			byID[p.ID] = p
		}
	}
	return byID
}
