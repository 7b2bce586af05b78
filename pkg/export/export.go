// Package export delivers computed report tables to configured sinks.
//
// Sinks run after a report computes; a failing sink is logged and counted
// but never fails the computation itself.
package export

import (
	"context"

	"github.com/playlytics/kpiengine/pkg/report"
)

// Sink writes a computed report table somewhere outside the engine.
type Sink interface {
	// ID returns the sink identifier from configuration.
	ID() string

	// Name returns a human-readable sink name.
	Name() string

	// Export writes the table to the sink's destination.
	Export(ctx context.Context, table *report.Table) error

	// Config returns the sink configuration.
	Config() Config
}

// Config is the base configuration for all sinks.
type Config struct {
	ID         string                 `yaml:"id" json:"id"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "csv_file"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// GetString retrieves a string value from parameters with a default.
func (c *Config) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from parameters with a default.
func (c *Config) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}
