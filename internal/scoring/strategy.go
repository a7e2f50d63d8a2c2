// internal/scoring/strategy.go
package scoring

import (
	"context"

	"event-recommender/internal/models"
)

// Strategy is one independent scoring rule. Implementations must be
// side-effect-free with respect to each other and must not panic for
// well-formed input; when the relevant criterion is absent they return a
// zero StrategyResult.
type Strategy interface {
	Name() string
	Score(ctx context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult
}

// Registry returns the strategies in their fixed evaluation order. The
// order also fixes the order of justifications on ranked entries, so it
// must stay deterministic (never derived from map iteration).
func Registry(popularity Strategy, semantic Strategy) []Strategy {
	strategies := []Strategy{
		CategoryStrategy{},
		BudgetStrategy{},
		CapacityStrategy{},
		ThemeStrategy{},
		PreferenceStrategy{},
	}
	if popularity != nil {
		strategies = append(strategies, popularity)
	}
	if semantic != nil {
		strategies = append(strategies, semantic)
	}
	return strategies
}

func zeroResult() models.StrategyResult {
	return models.StrategyResult{}
}
