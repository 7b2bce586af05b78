package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/playlytics/kpiengine/pkg/report"
	"github.com/sirupsen/logrus"
)

const (
	// resultCacheDefaultTTL is the default TTL for cached report tables.
	resultCacheDefaultTTL = 15 * time.Minute
	// resultCacheKeyPrefix is the prefix for all report result keys
	resultCacheKeyPrefix = "kpiengine:report_result:"
)

// RedisResultCache implements ResultCache using Redis.
type RedisResultCache struct {
	client *redis.Client
	cfg    RedisResultCacheConfig
}

// RedisResultCacheConfig tunes the cache. Zero values fall back to the
// package defaults.
type RedisResultCacheConfig struct {
	KeyPrefix  string
	DefaultTTL time.Duration
}

// NewRedisResultCache creates a new Redis-backed result cache.
func NewRedisResultCache(
	client *redis.Client,
	cfg RedisResultCacheConfig,
) *RedisResultCache {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = resultCacheKeyPrefix
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = resultCacheDefaultTTL
	}
	return &RedisResultCache{
		client: client,
		cfg:    cfg,
	}
}

// makeResultCacheKey creates a Redis key for a report
func (r *RedisResultCache) makeResultCacheKey(reportID string) string {
	return fmt.Sprintf("%s%s", r.cfg.KeyPrefix, reportID)
}

// GetTable retrieves the cached table for a report from Redis.
// A cache miss returns (nil, nil), never an error.
func (r *RedisResultCache) GetTable(ctx context.Context, reportID string) (*report.Table, error) {
	key := r.makeResultCacheKey(reportID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logrus.Debugf("no cached table for report %s", reportID)
		return nil, nil
	}
	if err != nil {
		logrus.Errorf("failed to get cached table for report %s: %v", reportID, err)
		return nil, fmt.Errorf("failed to get cached table: %w", err)
	}

	var table report.Table
	if err := json.Unmarshal([]byte(data), &table); err != nil {
		logrus.Errorf("failed to unmarshal cached table for report %s: %v", reportID, err)
		return nil, fmt.Errorf("failed to unmarshal cached table: %w", err)
	}

	logrus.Debugf("cache hit for report %s (%d rows)", reportID, len(table.Rows))
	return &table, nil
}

// SetTable caches a computed table in Redis with the given TTL.
// A non-positive TTL falls back to the default.
func (r *RedisResultCache) SetTable(ctx context.Context, table *report.Table, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}
	key := r.makeResultCacheKey(table.ReportID)

	data, err := json.Marshal(table)
	if err != nil {
		logrus.Errorf("failed to marshal table for report %s: %v", table.ReportID, err)
		return fmt.Errorf("failed to marshal table: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logrus.Errorf("failed to cache table for report %s: %v", table.ReportID, err)
		return fmt.Errorf("failed to cache table: %w", err)
	}

	logrus.Debugf("cached table for report %s with TTL %v", table.ReportID, ttl)
	return nil
}

// InvalidateTable drops the cached table for a report from Redis.
func (r *RedisResultCache) InvalidateTable(ctx context.Context, reportID string) error {
	key := r.makeResultCacheKey(reportID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("failed to invalidate cached table for report %s: %v", reportID, err)
		return fmt.Errorf("failed to invalidate cached table: %w", err)
	}

	logrus.Debugf("invalidated cached table for report %s", reportID)
	return nil
}
