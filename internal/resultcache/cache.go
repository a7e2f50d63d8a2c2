// internal/resultcache/cache.go
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/common/metrics"
	"event-recommender/internal/models"

	"github.com/redis/go-redis/v9"
)

const tier = "result"

type Config struct {
	TTL time.Duration
}

// Cache stores full ranked result sets in Redis under canonical criteria
// keys. Backend failures never propagate as fatal: a failed read is a
// miss, a failed write leaves the caller with fresh results.
type Cache struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func New(config *Config, rdb *redis.Client, log logger.Logger) *Cache {
	return &Cache{
		config: config,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "result-cache"}),
	}
}

// Key returns the canonical cache key for the criteria.
func (c *Cache) Key(criteria models.Criteria) string {
	return CanonicalKey(criteria)
}

// Get returns the cached ranked list for the criteria, or ok=false on a
// miss, an expired entry, or a backend failure.
func (c *Cache) Get(ctx context.Context, criteria models.Criteria) ([]models.RankedEntry, bool) {
	key := CanonicalKey(criteria)

	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheMisses.WithLabelValues(tier).Inc()
			return nil, false
		}
		metrics.CacheErrors.WithLabelValues(tier).Inc()
		c.logger.Warn("result cache read failed, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var entries []models.RankedEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		metrics.CacheErrors.WithLabelValues(tier).Inc()
		c.logger.Warn("result cache entry corrupt, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(tier).Inc()
	return entries, true
}

// Put stores the ranked list under the canonical key with the default TTL.
func (c *Cache) Put(ctx context.Context, criteria models.Criteria, entries []models.RankedEntry) error {
	return c.PutTTL(ctx, criteria, entries, c.config.TTL)
}

// PutTTL stores the ranked list with an explicit TTL.
func (c *Cache) PutTTL(ctx context.Context, criteria models.Criteria, entries []models.RankedEntry, ttl time.Duration) error {
	key := CanonicalKey(criteria)

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues(tier).Inc()
		return err
	}
	return nil
}

// Forget drops the entry for the criteria, if present.
func (c *Cache) Forget(ctx context.Context, criteria models.Criteria) error {
	return c.redis.Del(ctx, CanonicalKey(criteria)).Err()
}

// Stats describes the cache configuration for observability endpoints.
type Stats struct {
	Backend    string `json:"backend"`
	DefaultTTL int    `json:"default_ttl"`
	KeyPrefix  string `json:"key_prefix"`
}

func (c *Cache) Stats() Stats {
	return Stats{
		Backend:    "redis",
		DefaultTTL: int(c.config.TTL.Seconds()),
		KeyPrefix:  KeyPrefix,
	}
}
