package bootstrap

import (
	"fmt"

	"github.com/playlytics/kpiengine/pkg/engine"
	"github.com/playlytics/kpiengine/pkg/report"
	reportBuiltin "github.com/playlytics/kpiengine/pkg/report/builtin"
	"github.com/sirupsen/logrus"
)

// InitReports registers the built-in report types and instantiates every
// report named in the engine config.
//
// Custom report types defined outside pkg/report/builtin/ can be registered
// here with report.RegisterType before RegisterAll runs.
func InitReports(engineConfig *engine.Config) (*report.Registry, error) {
	reportBuiltin.RegisterReports()

	registry := report.NewRegistry()
	if err := report.RegisterAll(registry, engineConfig.Reports); err != nil {
		return nil, fmt.Errorf("failed to register reports: %w", err)
	}

	logrus.Infof("registered %d reports", registry.Count())
	return registry, nil
}
