package report

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Factory is a function that creates a report from a configuration.
type Factory func(config Config) (Report, error)

// factories stores registered report factories by type
var factories = make(map[string]Factory)

// RegisterType registers a factory function for a report type.
// This allows external packages to register their report types without
// creating import cycles.
func RegisterType(reportType string, factory Factory) {
	factories[reportType] = factory
	logrus.Debugf("registered report type: %s", reportType)
}

// Create creates a report instance based on the configuration.
// Disabled reports yield (nil, nil). Returns an error if the report type is
// unknown.
func Create(config Config) (Report, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled report: %s", config.ID)
		return nil, nil
	}

	logrus.Infof("creating report: id=%s, type=%s, group_by=%s", config.ID, config.Type, config.GroupBy)

	factory, exists := factories[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown report type: %s", config.Type)
	}

	return factory(config)
}

// CreateAll creates multiple report instances from a list of configurations.
// Returns all successfully created reports and any errors encountered.
func CreateAll(configs []Config) ([]Report, []error) {
	var reports []Report
	var errors []error

	for _, config := range configs {
		rep, err := Create(config)
		if err != nil {
			errors = append(errors, fmt.Errorf("failed to create report %s: %w", config.ID, err))
			continue
		}

		if rep != nil {
			reports = append(reports, rep)
		}
	}

	return reports, errors
}

// RegisterAll creates reports from the configs and registers them with the
// provided registry. This is a convenience function for setting up reports.
func RegisterAll(registry *Registry, configs []Config) error {
	reports, errors := CreateAll(configs)

	if len(errors) > 0 {
		logrus.Warnf("encountered %d errors while creating reports", len(errors))
		for _, err := range errors {
			logrus.Warnf("report creation error: %v", err)
		}
	}

	for _, rep := range reports {
		if err := registry.Register(rep); err != nil {
			return fmt.Errorf("failed to register report %s: %w", rep.ID(), err)
		}
	}

	logrus.Infof("registered %d reports", len(reports))
	return nil
}
