// internal/scoring/popularity.go
package scoring

import (
	"context"
	"fmt"
	"strings"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"
)

// StatsProvider supplies aggregate booking/review figures per item.
type StatsProvider interface {
	Stats(ctx context.Context, itemID int64) (models.PopularityStat, error)
}

// PopularityStrategy scores two additive bands from aggregate data: one
// for booking volume, one for average rating. A stats failure degrades to
// a zero contribution.
type PopularityStrategy struct {
	stats  StatsProvider
	logger logger.Logger
}

func NewPopularityStrategy(stats StatsProvider, log logger.Logger) *PopularityStrategy {
	return &PopularityStrategy{
		stats:  stats,
		logger: log.WithFields(map[string]interface{}{"strategy": "popularity"}),
	}
}

func (s *PopularityStrategy) Name() string { return "popularity" }

func (s *PopularityStrategy) Score(ctx context.Context, item models.CatalogItem, _ models.Criteria) models.StrategyResult {
	stat, err := s.stats.Stats(ctx, item.ID)
	if err != nil {
		s.logger.Warn("failed to load popularity stats", map[string]interface{}{
			"itemId": item.ID,
			"error":  err.Error(),
		})
		return zeroResult()
	}

	points := 0
	var parts []string

	switch {
	case stat.BookingCount >= 10:
		points += 15
		parts = append(parts, "Frequently booked")
	case stat.BookingCount >= 5:
		points += 10
		parts = append(parts, "Popular choice")
	case stat.BookingCount >= 2:
		points += 5
		parts = append(parts, "Previously booked")
	}

	if stat.ReviewCount >= 1 {
		switch {
		case stat.AverageRating >= 4.5 && stat.ReviewCount >= 2:
			points += 10
			parts = append(parts, fmt.Sprintf("Highly rated (%.1f/5)", stat.AverageRating))
		case stat.AverageRating >= 3.5:
			points += 6
			parts = append(parts, fmt.Sprintf("Well rated (%.1f/5)", stat.AverageRating))
		case stat.AverageRating >= 2.5:
			points += 3
			parts = append(parts, fmt.Sprintf("Rated %.1f/5", stat.AverageRating))
		}
	}

	if points == 0 {
		return zeroResult()
	}

	return models.StrategyResult{
		Points:        points,
		Justification: strings.Join(parts, "; "),
	}
}
