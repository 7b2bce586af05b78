package bootstrap

import (
	"fmt"

	"github.com/playlytics/kpiengine/pkg/engine"
	"github.com/playlytics/kpiengine/pkg/export"
	exportBuiltin "github.com/playlytics/kpiengine/pkg/export/builtin"
	"github.com/sirupsen/logrus"
)

// InitExports registers the built-in sink types and instantiates every sink
// named in the engine config.
//
// Sinks that talk to external services get their clients through the
// Dependencies struct; a sink whose dependency is missing fails here, at
// startup, rather than on the first export.
func InitExports(engineConfig *engine.Config, deps *exportBuiltin.Dependencies) (*export.Executor, *export.Registry, error) {
	exportBuiltin.RegisterSinks(deps)

	registry := export.NewRegistry()
	if err := export.RegisterAll(registry, engineConfig.Exports); err != nil {
		return nil, nil, fmt.Errorf("failed to register export sinks: %w", err)
	}

	logrus.Infof("registered %d export sinks", registry.Count())

	executor := export.NewExecutor(registry)
	return executor, registry, nil
}
