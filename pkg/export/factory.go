package export

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Factory is a function that creates a sink from a configuration.
type Factory func(config Config) (Sink, error)

// factories stores registered sink factories by type
var factories = make(map[string]Factory)

// RegisterType registers a factory function for a sink type.
func RegisterType(sinkType string, factory Factory) {
	factories[sinkType] = factory
	logrus.Debugf("registered sink type: %s", sinkType)
}

// Create creates a sink instance based on the configuration.
// Disabled sinks yield (nil, nil). Returns an error if the sink type is
// unknown.
func Create(config Config) (Sink, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled sink: %s", config.ID)
		return nil, nil
	}

	logrus.Infof("creating sink: id=%s, type=%s", config.ID, config.Type)

	factory, exists := factories[config.Type]
	if !exists {
		return nil, fmt.Errorf("unknown sink type: %s", config.Type)
	}

	return factory(config)
}

// RegisterAll creates sinks from the configs and registers them with the
// provided registry.
func RegisterAll(registry *Registry, configs []Config) error {
	for _, config := range configs {
		sink, err := Create(config)
		if err != nil {
			return fmt.Errorf("failed to create sink %s: %w", config.ID, err)
		}
		if sink == nil {
			continue
		}
		if err := registry.Register(sink); err != nil {
			return fmt.Errorf("failed to register sink %s: %w", sink.ID(), err)
		}
	}

	logrus.Infof("registered %d sinks", registry.Count())
	return nil
}
