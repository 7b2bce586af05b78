// Package cohort groups players into install-week cohorts.
//
// A cohort key is the ISO week of the player's install date ("2024-W05").
// Every player with a valid install date belongs to exactly one cohort;
// players with a missing install date are skipped and counted, never fatal.
package cohort

import (
	"fmt"
	"sort"
	"time"

	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/sirupsen/logrus"
)

// Result holds the cohort assignment for one snapshot.
type Result struct {
	// Cohorts maps ISO-week key to the distinct player IDs installed that week.
	Cohorts map[string][]string

	// KeyByPlayer maps player ID to its cohort key.
	KeyByPlayer map[string]string

	// SkippedInvalidInstall counts players excluded for a zero install date.
	SkippedInvalidInstall int

	// DuplicatePlayerIDs counts repeated player IDs; only the first
	// occurrence is assigned.
	DuplicatePlayerIDs int
}

// Key returns the ISO-week cohort key for an install date.
func Key(installedAt time.Time) string {
	year, week := installedAt.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// Build assigns every player with a valid install date to its install-week
// cohort. Duplicate player IDs keep their first occurrence.
func Build(players []model.Player) *Result {
	result := &Result{
		Cohorts:     make(map[string][]string),
		KeyByPlayer: make(map[string]string),
	}

	for i := range players {
		p := &players[i]

		if p.InstalledAt.IsZero() {
			result.SkippedInvalidInstall++
			logrus.Debugf("player %s has no install date, excluded from cohorts", p.ID)
			continue
		}

		if _, seen := result.KeyByPlayer[p.ID]; seen {
			result.DuplicatePlayerIDs++
			logrus.Debugf("duplicate player ID %s, keeping first occurrence", p.ID)
			continue
		}

		key := Key(p.InstalledAt)
		result.KeyByPlayer[p.ID] = key
		result.Cohorts[key] = append(result.Cohorts[key], p.ID)
	}

	logrus.Debugf("built %d cohorts from %d players (%d skipped for invalid install date)",
		len(result.Cohorts), len(players), result.SkippedInvalidInstall)

	return result
}

// Keys returns the cohort keys in chronological order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Cohorts))
	for key := range r.Cohorts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the distinct player count of a cohort.
func (r *Result) Size(key string) int {
	return len(r.Cohorts[key])
}
