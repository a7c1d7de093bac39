package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

const (
	// DefaultTTL is the default TTL for cached token metadata
	DefaultTTL = 6 * time.Hour

	// KeyPrefix is the prefix for metadata cache keys
	KeyPrefix = "token:meta:"
)

// MetadataCache is a Redis-backed cache of unverified token metadata
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

var _ asset.MetadataCache = (*MetadataCache)(nil)

// NewMetadataCache creates a new metadata cache. A non-positive ttl uses DefaultTTL.
func NewMetadataCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *MetadataCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MetadataCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "metadata_cache"),
	}
}

// cachedMetadata is the stored form; CachedAt helps when debugging stale entries
type cachedMetadata struct {
	asset.Metadata
	CachedAt time.Time `json:"cachedAt"`
}

func key(id string) string {
	return KeyPrefix + asset.NormalizeID(id)
}

// Get retrieves cached metadata for one token (admin inspection)
func (c *MetadataCache) Get(ctx context.Context, id string) (*asset.Metadata, bool, error) {
	val, err := c.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "token_id", id)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "token_id", id, "error", err)
		return nil, false, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var cached cachedMetadata
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached metadata: %w", err)
	}

	return &cached.Metadata, true, nil
}

// GetMultiple retrieves cached metadata for several tokens in one pipeline.
// Misses and undecodable entries are left out of the result.
func (c *MetadataCache) GetMultiple(ctx context.Context, ids []string) (map[string]asset.Metadata, error) {
	result := make(map[string]asset.Metadata)
	if len(ids) == 0 {
		return result, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, key(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Error("cache error", "operation", "get_multiple", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	for i, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}

		var cached cachedMetadata
		if err := json.Unmarshal([]byte(val), &cached); err != nil {
			c.logger.Warn("dropping undecodable cache entry", "token_id", ids[i], "error", err)
			continue
		}
		result[asset.NormalizeID(ids[i])] = cached.Metadata
	}

	c.logger.Debug("cache lookup", "requested", len(ids), "hits", len(result))
	return result, nil
}

// SetMultiple stores metadata for several tokens in one pipeline.
// Verified entries are skipped; they live in the verified list.
func (c *MetadataCache) SetMultiple(ctx context.Context, items []asset.Metadata) error {
	now := time.Now().UTC()
	pipe := c.client.Pipeline()
	count := 0

	for _, m := range items {
		if m.Verified || m.ID == "" {
			continue
		}
		data, err := json.Marshal(cachedMetadata{Metadata: m, CachedAt: now})
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		pipe.Set(ctx, key(m.ID), data, c.ttl)
		count++
	}

	if count == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("cache error", "operation", "set_multiple", "count", count, "error", err)
		return fmt.Errorf("failed to set cached metadata: %w", err)
	}
	return nil
}

// Delete removes cached metadata for one token
func (c *MetadataCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, key(id)).Err()
}

// Clear removes all cached metadata
func (c *MetadataCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			pipe = c.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	return iter.Err()
}

// Ping checks connectivity (used by readiness checks)
func (c *MetadataCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
