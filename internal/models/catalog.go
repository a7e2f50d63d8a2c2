// internal/models/catalog.go
package models

// CatalogItem is one bookable event package. The engine treats items as
// read-only; the catalog collaborator owns mutation.
type CatalogItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Description string  `json:"description"`
	Inclusions  string  `json:"inclusions"`
}

// FilterHints narrows the candidate list fetched from a catalog source.
// Zero values mean "no constraint".
type FilterHints struct {
	Category    string   `json:"category,omitempty"`
	MaxPrice    float64  `json:"maxPrice,omitempty"`
	MinCapacity int      `json:"minCapacity,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}
