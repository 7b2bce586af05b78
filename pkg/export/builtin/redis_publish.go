package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/playlytics/kpiengine/pkg/export"
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/sirupsen/logrus"
)

// TypeRedisPublish is the sink type for redis pub/sub export.
const TypeRedisPublish = "redis_publish"

// defaultPublishChannel is the channel used when none is configured.
const defaultPublishChannel = "kpiengine:reports"

// RedisPublishSink publishes the table JSON to a redis channel so external
// consumers (dashboards, exporters) can pick up freshly computed reports.
type RedisPublishSink struct {
	config  export.Config
	client  *redis.Client
	channel string
}

// NewRedisPublishSink creates a redis publish sink.
func NewRedisPublishSink(config export.Config, client *redis.Client) (*RedisPublishSink, error) {
	if client == nil {
		return nil, fmt.Errorf("redis_publish sink %s requires a redis client", config.ID)
	}
	return &RedisPublishSink{
		config:  config,
		client:  client,
		channel: config.GetString("channel", defaultPublishChannel),
	}, nil
}

// ID returns the sink identifier.
func (s *RedisPublishSink) ID() string {
	return s.config.ID
}

// Name returns the sink name.
func (s *RedisPublishSink) Name() string {
	return "Redis Publish"
}

// Config returns the sink configuration.
func (s *RedisPublishSink) Config() export.Config {
	return s.config
}

// Export publishes the table as a JSON message.
func (s *RedisPublishSink) Export(ctx context.Context, table *report.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal table for report %s: %w", table.ReportID, err)
	}

	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish report %s to %s: %w", table.ReportID, s.channel, err)
	}

	logrus.Debugf("published report %s to channel %s (%d bytes)", table.ReportID, s.channel, len(data))
	return nil
}
