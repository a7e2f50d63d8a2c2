// internal/popularity/provider.go
package popularity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "event-recommender/internal/common/errors"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/common/metrics"
	"event-recommender/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "evtrec:pop:"

type Config struct {
	CacheTTL time.Duration
}

// Provider aggregates booking and review figures per catalog item,
// read-through cached in Redis. Stats change slowly, so a stale-by-TTL
// value is acceptable for ranking.
type Provider struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewProvider(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Provider {
	return &Provider{
		config: config,
		db:     db,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "popularity-provider"}),
	}
}

func (p *Provider) Stats(ctx context.Context, itemID int64) (models.PopularityStat, error) {
	cacheKey := fmt.Sprintf("%s%d", cacheKeyPrefix, itemID)

	if p.redis != nil {
		val, err := p.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached models.PopularityStat
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				metrics.CacheHits.WithLabelValues("popularity").Inc()
				return cached, nil
			}
		} else if err != redis.Nil {
			metrics.CacheErrors.WithLabelValues("popularity").Inc()
			p.logger.Warn("popularity cache read failed", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		}
		metrics.CacheMisses.WithLabelValues("popularity").Inc()
	}

	stat, err := p.queryStats(ctx, itemID)
	if err != nil {
		return models.PopularityStat{}, err
	}

	if p.redis != nil {
		data, _ := json.Marshal(stat)
		if err := p.redis.Set(ctx, cacheKey, data, p.config.CacheTTL).Err(); err != nil {
			p.logger.Warn("popularity cache write failed", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		}
	}

	return stat, nil
}

func (p *Provider) queryStats(ctx context.Context, itemID int64) (models.PopularityStat, error) {
	stat := models.PopularityStat{ItemID: itemID}

	bookingQuery := `
		SELECT COUNT(*)
		FROM bookings
		WHERE package_id = $1 AND status != 'cancelled'`
	if err := p.db.QueryRowContext(ctx, bookingQuery, itemID).Scan(&stat.BookingCount); err != nil {
		return models.PopularityStat{}, commonerrors.NewStatsQueryError(itemID,
			fmt.Sprintf("booking count: %v", err))
	}

	reviewQuery := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE package_id = $1`
	if err := p.db.QueryRowContext(ctx, reviewQuery, itemID).Scan(&stat.ReviewCount, &stat.AverageRating); err != nil {
		return models.PopularityStat{}, commonerrors.NewStatsQueryError(itemID,
			fmt.Sprintf("review aggregate: %v", err))
	}

	return stat, nil
}
