// internal/scoring/budget.go
package scoring

import (
	"context"

	"event-recommender/internal/models"
)

// BudgetStrategy scores price-to-budget fit in bands:
// ratio <= 1.0 -> 40, <= 1.15 -> 20, <= 1.25 -> 5, above -> 0.
type BudgetStrategy struct{}

func (BudgetStrategy) Name() string { return "budget" }

func (BudgetStrategy) Score(_ context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	budget := criteria.BudgetValue()
	if budget <= 0 {
		return zeroResult()
	}

	ratio := item.Price / budget
	switch {
	case ratio <= 1.0:
		return models.StrategyResult{Points: 40, Justification: "Within budget"}
	case ratio <= 1.15:
		return models.StrategyResult{Points: 20, Justification: "Slightly over budget"}
	case ratio <= 1.25:
		return models.StrategyResult{Points: 5, Justification: "Moderately over budget"}
	default:
		return zeroResult()
	}
}
