package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/playlytics/kpiengine/pkg/report"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func sampleTable() *report.Table {
	return &report.Table{
		ReportID: "retention",
		Name:     "Weekly Retention",
		Columns:  []string{"cohort", "d7_retention_pct"},
		Rows: []report.Row{
			{"cohort": "2024-W05", "d7_retention_pct": report.Float(25.0)},
		},
		GeneratedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestResultCache_MissReturnsNil(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	cache := NewRedisResultCache(client, RedisResultCacheConfig{})

	table, err := cache.GetTable(context.Background(), "retention")
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table != nil {
		t.Error("Expected nil table on cache miss")
	}
}

func TestResultCache_SetAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cache := NewRedisResultCache(client, RedisResultCacheConfig{})

	if err := cache.SetTable(ctx, sampleTable(), time.Minute); err != nil {
		t.Fatalf("SetTable() error = %v", err)
	}

	table, err := cache.GetTable(ctx, "retention")
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table == nil {
		t.Fatal("Expected cached table")
	}
	if table.ReportID != "retention" {
		t.Errorf("Expected report ID 'retention', got '%s'", table.ReportID)
	}
	if len(table.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0]["cohort"] != "2024-W05" {
		t.Errorf("Expected cohort 2024-W05, got %v", table.Rows[0]["cohort"])
	}
}

func TestResultCache_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cache := NewRedisResultCache(client, RedisResultCacheConfig{})

	if err := cache.SetTable(ctx, sampleTable(), time.Minute); err != nil {
		t.Fatalf("SetTable() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	table, err := cache.GetTable(ctx, "retention")
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table != nil {
		t.Error("Expected cache entry expired after TTL")
	}
}

func TestResultCache_DefaultTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cache := NewRedisResultCache(client, RedisResultCacheConfig{})

	// Non-positive TTL falls back to the default.
	if err := cache.SetTable(ctx, sampleTable(), 0); err != nil {
		t.Fatalf("SetTable() error = %v", err)
	}

	ttl := mr.TTL("kpiengine:report_result:retention")
	if ttl != resultCacheDefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", resultCacheDefaultTTL, ttl)
	}
}

func TestResultCache_CustomKeyPrefixAndTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cache := NewRedisResultCache(client, RedisResultCacheConfig{
		KeyPrefix:  "custom:results:",
		DefaultTTL: time.Hour,
	})

	if err := cache.SetTable(ctx, sampleTable(), 0); err != nil {
		t.Fatalf("SetTable() error = %v", err)
	}

	if !mr.Exists("custom:results:retention") {
		t.Error("Expected key under the custom prefix")
	}
	if mr.Exists("kpiengine:report_result:retention") {
		t.Error("Expected no key under the default prefix")
	}
	if ttl := mr.TTL("custom:results:retention"); ttl != time.Hour {
		t.Errorf("Expected configured default TTL 1h, got %v", ttl)
	}

	table, err := cache.GetTable(ctx, "retention")
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table == nil {
		t.Fatal("Expected cached table via custom prefix")
	}
}

func TestResultCache_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	cache := NewRedisResultCache(client, RedisResultCacheConfig{})

	if err := cache.SetTable(ctx, sampleTable(), time.Minute); err != nil {
		t.Fatalf("SetTable() error = %v", err)
	}
	if err := cache.InvalidateTable(ctx, "retention"); err != nil {
		t.Fatalf("InvalidateTable() error = %v", err)
	}

	table, err := cache.GetTable(ctx, "retention")
	if err != nil {
		t.Fatalf("GetTable() error = %v", err)
	}
	if table != nil {
		t.Error("Expected table removed after invalidation")
	}
}
