// internal/scoring/semantic_test.go
package scoring

import (
	"context"
	"errors"
	"testing"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeSemanticScorer struct {
	points int
	reason string
	err    error
	calls  int
}

func (f *fakeSemanticScorer) ScoreMatch(_ context.Context, _ models.CatalogItem, _ models.Criteria) (int, string, error) {
	f.calls++
	return f.points, f.reason, f.err
}

func TestSemanticStrategy_Score(t *testing.T) {
	tests := []struct {
		name           string
		criteria       models.Criteria
		scorer         *fakeSemanticScorer
		expectedPoints int
		expectedCalls  int
	}{
		{
			name:           "positive score passes through",
			criteria:       models.Criteria{Theme: strPtr("elegant")},
			scorer:         &fakeSemanticScorer{points: 22, reason: "Strong thematic fit"},
			expectedPoints: 22,
			expectedCalls:  1,
		},
		{
			name:           "scorer error degrades to zero",
			criteria:       models.Criteria{Theme: strPtr("elegant")},
			scorer:         &fakeSemanticScorer{err: errors.New("upstream unavailable")},
			expectedPoints: 0,
			expectedCalls:  1,
		},
		{
			name:           "zero score yields empty result",
			criteria:       models.Criteria{Theme: strPtr("elegant")},
			scorer:         &fakeSemanticScorer{points: 0, reason: "No match"},
			expectedPoints: 0,
			expectedCalls:  1,
		},
		{
			name:           "skipped without free-text input",
			criteria:       models.Criteria{Type: strPtr("wedding")},
			scorer:         &fakeSemanticScorer{points: 22},
			expectedPoints: 0,
			expectedCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewSemanticStrategy(tt.scorer, logger.NewNoOpLogger())

			result := strategy.Score(context.Background(), testItem(), tt.criteria)

			assert.Equal(t, tt.expectedPoints, result.Points)
			assert.Equal(t, tt.expectedCalls, tt.scorer.calls)
			if tt.expectedPoints == 0 {
				assert.Empty(t, result.Justification)
			}
		})
	}
}
