package app

import (
	"context"
	"fmt"
	"time"

	"github.com/playlytics/kpiengine/internal/bootstrap"
	"github.com/playlytics/kpiengine/internal/config"
	"github.com/playlytics/kpiengine/internal/server"
	"github.com/playlytics/kpiengine/pkg/engine"
	"github.com/playlytics/kpiengine/pkg/service"
	"github.com/playlytics/kpiengine/pkg/snapshot"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	exportBuiltin "github.com/playlytics/kpiengine/pkg/export/builtin"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order: Redis, engine config,
// snapshot provider, reports and sinks, engine manager, servers, telemetry.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	if cfg.RedisEnabled {
		if err := app.initRedis(ctx); err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
	} else {
		logrus.Info("Redis disabled, running without snapshot and result caching")
	}

	engineConfig, err := engine.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded engine configuration from %s", cfg.ConfigPath)

	provider := app.initSnapshotProvider()
	cache := app.initResultCache()

	reportRegistry, err := bootstrap.InitReports(engineConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init reports: %w", err)
	}

	deps := &exportBuiltin.Dependencies{
		Redis: app.redisClient,
	}

	executor, sinkRegistry, err := bootstrap.InitExports(engineConfig, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to init export sinks: %w", err)
	}

	manager := bootstrap.InitEngine(provider, reportRegistry, executor, engineConfig, cache, cfg.ResultCacheTTL)

	if err := engine.ValidateWiring(reportRegistry, sinkRegistry, engineConfig); err != nil {
		return nil, fmt.Errorf("engine wiring validation failed: %w", err)
	}
	logrus.Info("engine wiring validation passed")

	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, manager)
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.OtelServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client, retrying with exponential backoff
// until the server answers a ping.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	if a.cfg.RedisRetryDelayMs > 0 {
		b.InitialInterval = time.Duration(a.cfg.RedisRetryDelayMs) * time.Millisecond
	}
	maxRetries := backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initSnapshotProvider builds the snapshot source. The CSV provider always
// reads from SnapshotDir; with Redis available it is wrapped in a caching
// layer so repeated report runs skip the file parse.
func (a *App) initSnapshotProvider() snapshot.Provider {
	var provider snapshot.Provider = snapshot.NewCSVProvider(a.cfg.SnapshotDir)

	if a.redisClient != nil {
		provider = snapshot.NewCachedProvider(provider, a.redisClient, a.cfg.SnapshotCacheTTL)
		logrus.Infof("snapshot caching enabled (ttl %s)", a.cfg.SnapshotCacheTTL)
	}

	return provider
}

// initResultCache returns the report result cache, or nil when Redis is
// unavailable. The engine treats a nil cache as caching disabled.
func (a *App) initResultCache() service.ResultCache {
	if a.redisClient == nil {
		return nil
	}
	return service.NewRedisResultCache(a.redisClient, service.RedisResultCacheConfig{
		DefaultTTL: a.cfg.ResultCacheTTL,
	})
}
