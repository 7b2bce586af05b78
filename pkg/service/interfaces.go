package service

import (
	"context"
	"time"

	"github.com/playlytics/kpiengine/pkg/report"
)

// ResultCache stores computed report tables between invocations.
// Derived data is always recomputable from the snapshot; the cache only
// spares repeated recomputation when the same report is requested again.
//
// Having an interface here keeps the engine testable without redis.
type ResultCache interface {
	// GetTable returns the cached table for a report, or (nil, nil) when
	// nothing is cached.
	GetTable(ctx context.Context, reportID string) (*report.Table, error)

	// SetTable caches a computed table with a TTL.
	SetTable(ctx context.Context, table *report.Table, ttl time.Duration) error

	// InvalidateTable drops the cached table for a report.
	InvalidateTable(ctx context.Context, reportID string) error
}
