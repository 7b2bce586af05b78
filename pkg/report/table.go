package report

import (
	"time"
)

// Row is a single result row of named fields. Undefined ratios are stored
// as nil *float64 values and serialize to JSON null.
type Row map[string]interface{}

// Table is the ordered result set of one report computation.
type Table struct {
	ReportID    string         `json:"reportId"`
	Name        string         `json:"name"`
	Columns     []string       `json:"columns"`
	Rows        []Row          `json:"rows"`
	Anomalies   AnomalySummary `json:"anomalies"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// AnomalySummary counts the data-quality violations observed while building
// the dataset a table was computed from. Offending records are excluded from
// the aggregates, never silently: these counts are attached to every table.
type AnomalySummary struct {
	InvalidInstallDates     int `json:"invalidInstallDates"`
	InvalidSessionDates     int `json:"invalidSessionDates"`
	InvalidTransactionDates int `json:"invalidTransactionDates"`
	MissingPlayerSessions   int `json:"missingPlayerSessions"`
	MissingPlayerTxns       int `json:"missingPlayerTxns"`
	NegativeOffsets         int `json:"negativeOffsets"`
	NegativeAmounts         int `json:"negativeAmounts"`
	DuplicatePlayers        int `json:"duplicatePlayers"`
}

// Total returns the sum of all anomaly counts.
func (a AnomalySummary) Total() int {
	return a.InvalidInstallDates + a.InvalidSessionDates + a.InvalidTransactionDates +
		a.MissingPlayerSessions + a.MissingPlayerTxns + a.NegativeOffsets + a.NegativeAmounts +
		a.DuplicatePlayers
}

// Pct returns 100*part/whole, or nil when the denominator is zero.
// A zero-member group has an undefined percentage, not a zero one.
func Pct(part, whole int) *float64 {
	if whole == 0 {
		return nil
	}
	v := 100 * float64(part) / float64(whole)
	return &v
}

// PerUser returns total/users, or nil when the group has no users.
func PerUser(total float64, users int) *float64 {
	if users == 0 {
		return nil
	}
	v := total / float64(users)
	return &v
}

// Float returns a pointer to v, for defined ratio fields.
func Float(v float64) *float64 {
	return &v
}
