// internal/scoring/category.go
package scoring

import (
	"context"
	"fmt"

	"event-recommender/internal/models"
)

const categoryMatchPoints = 40

// CategoryStrategy rewards an exact match between the requested event
// type and the package category. The comparison is case-sensitive.
type CategoryStrategy struct{}

func (CategoryStrategy) Name() string { return "category" }

func (CategoryStrategy) Score(_ context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	eventType := criteria.TypeValue()
	if eventType == "" {
		return zeroResult()
	}

	if item.Category == eventType {
		return models.StrategyResult{
			Points:        categoryMatchPoints,
			Justification: fmt.Sprintf("Matches your %s event type", eventType),
		}
	}
	return zeroResult()
}
