package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/report"
	"gopkg.in/yaml.v3"
)

// Config represents the complete engine configuration: which reports to
// compute and which sinks their tables go to.
type Config struct {
	Reports []report.Config `yaml:"reports"`
	Exports []export.Config `yaml:"exports"`
}

// LoadConfig loads engine configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	// Check for duplicate report IDs
	reportIDs := make(map[string]bool)
	for _, rep := range c.Reports {
		if rep.ID == "" {
			return fmt.Errorf("report with empty ID found")
		}
		if reportIDs[rep.ID] {
			return fmt.Errorf("duplicate report ID: %s", rep.ID)
		}
		reportIDs[rep.ID] = true

		if rep.Type == "" {
			return fmt.Errorf("report %s has empty type", rep.ID)
		}
	}

	// Check for duplicate sink IDs
	sinkIDs := make(map[string]bool)
	for _, sink := range c.Exports {
		if sink.ID == "" {
			return fmt.Errorf("sink with empty ID found")
		}
		if sinkIDs[sink.ID] {
			return fmt.Errorf("duplicate sink ID: %s", sink.ID)
		}
		sinkIDs[sink.ID] = true

		if sink.Type == "" {
			return fmt.Errorf("sink %s has empty type", sink.ID)
		}
	}

	// Validate that all sink references in reports exist
	for _, rep := range c.Reports {
		for _, sinkID := range rep.Exports {
			if !sinkIDs[sinkID] {
				return fmt.Errorf("report %s references unknown sink: %s", rep.ID, sinkID)
			}
		}
	}

	return nil
}

// ReportExports returns the report ID → sink IDs mapping. Sinks that are
// disabled in the configuration are left out, so toggling a sink off (for
// example REDIS_ENABLED=false) does not leave reports routing to a sink
// that was never registered.
func (c *Config) ReportExports() map[string][]string {
	enabledSinks := make(map[string]bool)
	for _, sink := range c.Exports {
		if sink.Enabled {
			enabledSinks[sink.ID] = true
		}
	}

	mapping := make(map[string][]string)
	for _, rep := range c.Reports {
		var sinkIDs []string
		for _, sinkID := range rep.Exports {
			if enabledSinks[sinkID] {
				sinkIDs = append(sinkIDs, sinkID)
			}
		}
		if len(sinkIDs) > 0 {
			mapping[rep.ID] = sinkIDs
		}
	}
	return mapping
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
