// internal/models/ranking.go
package models

// StrategyResult is the contribution of one strategy for one item.
// Points are always >= 0; strategies add, never subtract.
type StrategyResult struct {
	Points        int    `json:"points"`
	Justification string `json:"justification"`
}

// RankedEntry is one scored candidate in a ranking result. Justifications
// are collected in strategy-registration order.
type RankedEntry struct {
	Item           CatalogItem `json:"item"`
	TotalScore     int         `json:"totalScore"`
	Justifications []string    `json:"justifications"`
}

// RankedItem is the caller-facing projection of a RankedEntry.
type RankedItem struct {
	ItemID         int64    `json:"item_id"`
	TotalScore     int      `json:"total_score"`
	Justifications []string `json:"justifications"`
}

// PopularityStat holds aggregate booking and review figures for one item.
type PopularityStat struct {
	ItemID        int64   `json:"itemId"`
	BookingCount  int     `json:"bookingCount"`
	ReviewCount   int     `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
}
