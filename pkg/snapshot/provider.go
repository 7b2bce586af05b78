// Package snapshot loads the immutable input snapshot the engine runs on.
//
// The contract with providers: every collection is fully materialized before
// any aggregation starts, identifiers are unique within their entity type,
// and records join by ID equality. Malformed individual fields (bad dates,
// bad numbers) never abort a load; they yield zero values that downstream
// stages count as data-quality anomalies.
package snapshot

import (
	"context"

	"github.com/playlytics/kpiengine/pkg/model"
)

// Provider materializes a snapshot from some source.
type Provider interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}
