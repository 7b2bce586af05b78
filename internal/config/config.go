package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"kpi-engine"`

	// Snapshot source configuration
	SnapshotDir      string        `env:"SNAPSHOT_DIR" envDefault:"data"`
	SnapshotCacheTTL time.Duration `env:"SNAPSHOT_CACHE_TTL" envDefault:"1h"`

	// Engine configuration
	ConfigPath     string        `env:"CONFIG_PATH" envDefault:"config/reports.yaml"`
	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"15m"`

	// Redis configuration. With REDIS_ENABLED=false the engine runs without
	// snapshot/result caching and redis_publish sinks cannot be configured.
	RedisEnabled      bool   `env:"REDIS_ENABLED" envDefault:"true"`
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// Telemetry configuration. OTEL_SERVICE_NAME falls back to SERVICE_NAME
	// when unset so the two identities stay aligned.
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME"`
}
