// internal/scoring/theme.go
package scoring

import (
	"context"
	"fmt"
	"strings"

	"event-recommender/internal/models"
)

// ThemeStrategy matches comma-separated sub-themes against the package
// name and description. Points: 15 for the first match plus 5 per extra
// match, capped at 25.
type ThemeStrategy struct{}

func (ThemeStrategy) Name() string { return "theme" }

func (ThemeStrategy) Score(_ context.Context, item models.CatalogItem, criteria models.Criteria) models.StrategyResult {
	theme := criteria.ThemeValue()
	if theme == "" {
		return zeroResult()
	}

	haystack := strings.ToLower(item.Name + " " + item.Description)

	var matched []string
	for _, sub := range strings.Split(theme, ",") {
		sub = strings.ToLower(strings.TrimSpace(sub))
		if sub == "" {
			continue
		}
		if strings.Contains(haystack, sub) {
			matched = append(matched, sub)
		}
	}

	if len(matched) == 0 {
		return zeroResult()
	}

	points := 15 + (len(matched)-1)*5
	if points > 25 {
		points = 25
	}

	return models.StrategyResult{
		Points:        points,
		Justification: fmt.Sprintf("Matches theme: %s", strings.Join(matched, ", ")),
	}
}
