package report

import (
	"context"
)

// Report is a registered KPI computation. Reports are pure reductions over
// a Dataset: the same dataset and reference time always produce the same
// table.
type Report interface {
	// ID returns the report identifier from configuration.
	ID() string

	// Name returns a human-readable report name.
	Name() string

	// Compute reduces the dataset into an ordered result table.
	Compute(ctx context.Context, ds *Dataset) (*Table, error)

	// Config returns the report configuration.
	Config() Config
}
