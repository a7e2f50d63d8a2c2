// internal/scoring/preference.go
package scoring

import (
	"context"
	"fmt"
	"strings"

	"event-recommender/internal/models"
)

// PreferenceStrategy grants 5 points per free-text preference found in
// the package name or description, unbounded.
type PreferenceStrategy struct{}

func (PreferenceStrategy) Name() string { return "preference" }

func (PreferenceStrategy) Score(_ context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	if len(criteria.Preferences) == 0 {
		return zeroResult()
	}

	haystack := strings.ToLower(item.Name + " " + item.Description)

	matchedCount := 0
	for _, pref := range criteria.Preferences {
		pref = strings.ToLower(strings.TrimSpace(pref))
		if pref == "" {
			continue
		}
		if strings.Contains(haystack, pref) {
			matchedCount++
		}
	}

	if matchedCount == 0 {
		return zeroResult()
	}

	return models.StrategyResult{
		Points:        5 * matchedCount,
		Justification: fmt.Sprintf("Matches %d of your preferences", matchedCount),
	}
}
