// internal/scoring/capacity.go
package scoring

import (
	"context"

	"event-recommender/internal/models"
)

// CapacityStrategy rewards packages that can seat the guest count. A
// package below the guest count gets no bonus but is not disqualified.
type CapacityStrategy struct{}

func (CapacityStrategy) Name() string { return "capacity" }

func (CapacityStrategy) Score(_ context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	guests := criteria.GuestCount()
	if guests <= 0 || item.Capacity < guests {
		return zeroResult()
	}

	switch {
	case float64(item.Capacity) <= float64(guests)*1.2:
		return models.StrategyResult{Points: 25, Justification: "Perfect capacity fit for your guest count"}
	case float64(item.Capacity) <= float64(guests)*1.5:
		return models.StrategyResult{Points: 15, Justification: "Good capacity fit for your guest count"}
	default:
		return models.StrategyResult{Points: 5, Justification: "Can accommodate your guests"}
	}
}
