package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const snapshotKey = "catalog:snapshot"

// Client caches the Catalog Snapshot in Redis so reloads do not hammer the
// upstream backend.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int, snapshotTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: snapshotTTL}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetSnapshot returns the cached snapshot, or ok=false on a miss.
func (c *Client) GetSnapshot(ctx context.Context) ([]models.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot get failed: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		// A corrupt cache entry is treated as a miss and overwritten.
		return nil, false, nil
	}
	return products, true, nil
}

// SetSnapshot stores the snapshot with the configured TTL.
func (c *Client) SetSnapshot(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("snapshot marshal failed: %w", err)
	}
	return c.rdb.Set(ctx, snapshotKey, raw, c.ttl).Err()
}

// InvalidateSnapshot drops the cached snapshot, forcing the next reload to
// hit the upstream backend.
func (c *Client) InvalidateSnapshot(ctx context.Context) error {
	return c.rdb.Del(ctx, snapshotKey).Err()
}

// CachedSource is a read-through catalog.Source: cache hit short-circuits
// the upstream fetch, a miss fetches and repopulates.
type CachedSource struct {
	cache    *Client
	upstream catalog.Source
	logger   *zap.Logger
}

// NewCachedSource wraps an upstream source with the snapshot cache.
func NewCachedSource(cache *Client, upstream catalog.Source) *CachedSource {
	return &CachedSource{
		cache:    cache,
		upstream: upstream,
		logger:   util.GetLogger(),
	}
}

// ListProducts implements catalog.Source.
func (s *CachedSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, ok, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		s.logger.Warn("Snapshot cache read failed, falling through to upstream", zap.Error(err))
	}
	if ok {
		util.SnapshotCacheHitsTotal.Inc()
		return products, nil
	}
	util.SnapshotCacheMissesTotal.Inc()

	products, err = s.upstream.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSnapshot(ctx, products); err != nil {
		s.logger.Warn("Failed to populate snapshot cache", zap.Error(err))
	}
	return products, nil
}
