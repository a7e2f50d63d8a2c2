// internal/scoring/popularity_test.go
package scoring

import (
	"context"
	"errors"
	"testing"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeStatsProvider struct {
	stat models.PopularityStat
	err  error
}

func (f *fakeStatsProvider) Stats(_ context.Context, itemID int64) (models.PopularityStat, error) {
	if f.err != nil {
		return models.PopularityStat{}, f.err
	}
	stat := f.stat
	stat.ItemID = itemID
	return stat, nil
}

func TestPopularityStrategy_Score(t *testing.T) {
	tests := []struct {
		name           string
		stat           models.PopularityStat
		statsErr       error
		expectedPoints int
	}{
		{
			name:           "frequently booked and highly rated",
			stat:           models.PopularityStat{BookingCount: 12, ReviewCount: 8, AverageRating: 4.7},
			expectedPoints: 25,
		},
		{
			name:           "popular choice with good rating",
			stat:           models.PopularityStat{BookingCount: 6, ReviewCount: 4, AverageRating: 3.9},
			expectedPoints: 16,
		},
		{
			name:           "previously booked only",
			stat:           models.PopularityStat{BookingCount: 3, ReviewCount: 0, AverageRating: 0},
			expectedPoints: 5,
		},
		{
			name:           "high rating with one review misses the top band",
			stat:           models.PopularityStat{BookingCount: 0, ReviewCount: 1, AverageRating: 4.8},
			expectedPoints: 6,
		},
		{
			name:           "mediocre rating",
			stat:           models.PopularityStat{BookingCount: 0, ReviewCount: 3, AverageRating: 2.8},
			expectedPoints: 3,
		},
		{
			name:           "poor rating scores nothing",
			stat:           models.PopularityStat{BookingCount: 1, ReviewCount: 3, AverageRating: 1.9},
			expectedPoints: 0,
		},
		{
			name:           "no history",
			stat:           models.PopularityStat{},
			expectedPoints: 0,
		},
		{
			name:           "stats failure degrades to zero",
			statsErr:       errors.New("connection refused"),
			expectedPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeStatsProvider{stat: tt.stat, err: tt.statsErr}
			strategy := NewPopularityStrategy(provider, logger.NewNoOpLogger())

			result := strategy.Score(context.Background(), testItem(), models.Criteria{})

			assert.Equal(t, tt.expectedPoints, result.Points)
			if tt.expectedPoints == 0 {
				assert.Empty(t, result.Justification)
			} else {
				assert.NotEmpty(t, result.Justification)
			}
		})
	}
}
