package report

import (
	"time"

	"github.com/playlytics/kpiengine/pkg/activity"
	"github.com/playlytics/kpiengine/pkg/cohort"
	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/sirupsen/logrus"
)

// Revenue is the per-player transaction summary.
type Revenue struct {
	Total    float64
	TxnCount int
}

// Paying reports whether the player made at least one valid purchase.
func (r *Revenue) Paying() bool {
	return r != nil && r.TxnCount > 0
}

// Dataset is the joined, per-player view of one snapshot that every report
// reduces over. It is built once per engine run and shared read-only across
// reports, so no report rescans the raw rows.
type Dataset struct {
	// Players holds every player in the snapshot, keyed by ID.
	Players map[string]*model.Player

	// Cohorts is the install-week cohort assignment.
	Cohorts *cohort.Result

	// Activity holds a record per player, including zero-session players.
	Activity *activity.Result

	// Revenue has an entry only for players with at least one valid
	// transaction; absent players contributed zero revenue.
	Revenue map[string]*Revenue

	// Anomalies aggregates the data-quality counts from all stages.
	Anomalies AnomalySummary

	// Now is the reference time for recency computations. Fixing it on the
	// dataset keeps every report of a run, and reruns in tests, consistent.
	Now time.Time
}

// BuildDataset derives the per-player summaries from a snapshot: cohort
// assignment, activity records, and revenue, plus the combined anomaly
// counts. The snapshot itself is not retained.
func BuildDataset(snapshot *model.Snapshot, now time.Time) *Dataset {
	players := snapshot.PlayerByID()

	cohorts := cohort.Build(snapshot.Players)
	acts := activity.Resolve(players, snapshot.Sessions)

	ds := &Dataset{
		Players:  players,
		Cohorts:  cohorts,
		Activity: acts,
		Revenue:  make(map[string]*Revenue),
		Now:      now,
	}

	for i := range snapshot.Transactions {
		t := &snapshot.Transactions[i]

		if _, known := players[t.PlayerID]; !known {
			ds.Anomalies.MissingPlayerTxns++
			logrus.Debugf("transaction %s references unknown player %s", t.ID, t.PlayerID)
			continue
		}
		if t.Date.IsZero() {
			ds.Anomalies.InvalidTransactionDates++
			continue
		}
		if t.Amount < 0 {
			ds.Anomalies.NegativeAmounts++
			logrus.Debugf("transaction %s has negative amount %f", t.ID, t.Amount)
			continue
		}

		rev := ds.Revenue[t.PlayerID]
		if rev == nil {
			rev = &Revenue{}
			ds.Revenue[t.PlayerID] = rev
		}
		rev.Total += t.Amount
		rev.TxnCount++
	}

	ds.Anomalies.InvalidInstallDates = cohorts.SkippedInvalidInstall
	ds.Anomalies.DuplicatePlayers = cohorts.DuplicatePlayerIDs
	ds.Anomalies.InvalidSessionDates = acts.Anomalies.InvalidSessionDates
	ds.Anomalies.MissingPlayerSessions = acts.Anomalies.MissingPlayerRefs
	ds.Anomalies.NegativeOffsets = acts.Anomalies.NegativeOffsets

	logrus.Debugf("dataset built: %d players, %d cohorts, %d paying players, %d anomalies",
		len(ds.Players), len(cohorts.Cohorts), len(ds.Revenue), ds.Anomalies.Total())

	return ds
}

// RevenueOf returns the revenue summary for a player, nil when the player
// has no valid transactions.
func (ds *Dataset) RevenueOf(playerID string) *Revenue {
	return ds.Revenue[playerID]
}

// RecordOf returns the activity record for a player, nil for unknown IDs.
func (ds *Dataset) RecordOf(playerID string) *activity.Record {
	return ds.Activity.ByPlayer[playerID]
}
