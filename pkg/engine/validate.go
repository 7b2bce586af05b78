package engine

import (
	"fmt"
	"strings"

	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/report"
)

// ValidateWiring validates that the engine is correctly wired.
// It checks that:
// - All enabled reports in config have registered instances
// - All enabled sinks in config have registered instances
// - All sink references in reports exist in the config
//
// This catches common mistakes like:
// - Forgetting to register a report type factory
// - Typos in report/sink IDs or types
// - Missing sink definitions
func ValidateWiring(reportRegistry *report.Registry, sinkRegistry *export.Registry, config *Config) error {
	var errors []string

	// Check that every enabled report in config has a registered instance
	for _, rc := range config.Reports {
		if !rc.Enabled {
			continue
		}

		if reportRegistry.Get(rc.ID) == nil {
			errors = append(errors, fmt.Sprintf("report '%s' (type=%s) is enabled in config but not registered", rc.ID, rc.Type))
		}
	}

	// Check that every enabled sink in config has a registered instance
	for _, sc := range config.Exports {
		if !sc.Enabled {
			continue
		}

		if sinkRegistry.Get(sc.ID) == nil {
			errors = append(errors, fmt.Sprintf("sink '%s' (type=%s) is enabled in config but not registered", sc.ID, sc.Type))
		}
	}

	// Note: The validation for "sink references in reports exist in config"
	// is already handled by Config.Validate() during config loading

	if len(errors) > 0 {
		return fmt.Errorf("engine wiring validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
