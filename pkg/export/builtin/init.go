package builtin

import (
	"github.com/go-redis/redis/v8"
	"github.com/playlytics/kpiengine/pkg/export"
)

// Dependencies holds the external services builtin sinks need.
type Dependencies struct {
	// Redis is the client used by redis_publish sinks. It may be nil when
	// the deployment runs without redis; creating a redis_publish sink then
	// fails at wiring time instead of at export time.
	Redis *redis.Client
}

// RegisterSinks registers all built-in sink types with the factory.
func RegisterSinks(deps *Dependencies) {
	export.RegisterType(TypeCSVFile, func(config export.Config) (export.Sink, error) {
		return NewCSVFileSink(config), nil
	})

	export.RegisterType(TypeRedisPublish, func(config export.Config) (export.Sink, error) {
		return NewRedisPublishSink(config, deps.Redis)
	})
}
