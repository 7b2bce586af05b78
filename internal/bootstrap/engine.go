package bootstrap

import (
	"time"

	"github.com/playlytics/kpiengine/pkg/engine"
	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/playlytics/kpiengine/pkg/service"
	"github.com/playlytics/kpiengine/pkg/snapshot"
	"github.com/sirupsen/logrus"
)

// InitEngine wires the snapshot provider, report registry, export executor
// and result cache into the engine manager.
//
// Report-to-sink routing comes from the engine config: each report lists the
// sink IDs its tables are exported to. A nil cache disables result caching.
func InitEngine(
	provider snapshot.Provider,
	reportRegistry *report.Registry,
	executor *export.Executor,
	engineConfig *engine.Config,
	cache service.ResultCache,
	cacheTTL time.Duration,
) *engine.Manager {
	reportExports := engineConfig.ReportExports()

	manager := engine.NewManager(provider, reportRegistry, executor, reportExports, cache, cacheTTL)
	logrus.Infof("initialized engine manager with %d report-to-sink routes", len(reportExports))

	return manager
}
