// internal/scoring/semantic.go
package scoring

import (
	"context"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"
)

// SemanticScorer rates how well an item matches free-text criteria via an
// external text-generation dependency, on a 0-30 scale.
type SemanticScorer interface {
	ScoreMatch(ctx context.Context, item models.CatalogItem, criteria models.Criteria) (int, string, error)
}

// SemanticStrategy wraps the external semantic scorer. It never returns
// an error and never panics: any dependency failure degrades to a zero
// contribution with a warning diagnostic.
type SemanticStrategy struct {
	scorer SemanticScorer
	logger logger.Logger
}

func NewSemanticStrategy(scorer SemanticScorer, log logger.Logger) *SemanticStrategy {
	return &SemanticStrategy{
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"strategy": "semantic"}),
	}
}

func (s *SemanticStrategy) Name() string { return "semantic" }

func (s *SemanticStrategy) Score(ctx context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	if !criteria.HasSemanticInput() {
		return zeroResult()
	}

	points, reason, err := s.scorer.ScoreMatch(ctx, item, criteria)
	if err != nil {
		s.logger.Warn("semantic scoring degraded to zero", map[string]interface{}{
			"itemId": item.ID,
			"error":  err.Error(),
		})
		return zeroResult()
	}

	if points <= 0 {
		return zeroResult()
	}

	return models.StrategyResult{
		Points:        points,
		Justification: reason,
	}
}
