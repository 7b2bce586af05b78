package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/playlytics/kpiengine/pkg/model"
	"github.com/sirupsen/logrus"
)

const (
	// snapshotCacheKey holds the serialized snapshot.
	snapshotCacheKey = "kpiengine:snapshot"
	// snapshotCacheDefaultTTL bounds how stale a cached snapshot may get.
	snapshotCacheDefaultTTL = time.Hour
)

// CachedProvider wraps another provider with a Redis cache, so repeated
// report invocations do not re-read the flat files. The cached copy expires
// after the TTL; the source provider remains the authority.
type CachedProvider struct {
	source Provider
	client *redis.Client
	ttl    time.Duration
}

// NewCachedProvider creates a caching provider. A non-positive ttl falls
// back to the default.
func NewCachedProvider(source Provider, client *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = snapshotCacheDefaultTTL
	}
	return &CachedProvider{
		source: source,
		client: client,
		ttl:    ttl,
	}
}

// Load returns the cached snapshot when present, falling back to the source
// provider and caching its result. Cache failures degrade to a source load,
// never to an error.
func (p *CachedProvider) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := p.client.Get(ctx, snapshotCacheKey).Result()
	if err == nil {
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err == nil {
			logrus.Debugf("snapshot cache hit (%d players)", len(snap.Players))
			return &snap, nil
		}
		logrus.Warnf("failed to unmarshal cached snapshot, reloading from source")
	} else if err != redis.Nil {
		logrus.Warnf("snapshot cache read failed: %v, loading from source", err)
	}

	snap, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("source load failed: %w", err)
	}

	encoded, err := json.Marshal(snap)
	if err != nil {
		logrus.Warnf("failed to marshal snapshot for caching: %v", err)
		return snap, nil
	}
	if err := p.client.Set(ctx, snapshotCacheKey, encoded, p.ttl).Err(); err != nil {
		logrus.Warnf("failed to cache snapshot: %v", err)
	}

	return snap, nil
}

// Invalidate drops the cached snapshot.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	return p.client.Del(ctx, snapshotCacheKey).Err()
}
