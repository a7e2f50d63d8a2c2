// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	commonerrors "event-recommender/internal/common/errors"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"
)

const defaultCandidateLimit = 100

// Source produces the candidate pool a ranking run scores. A source
// failure is fatal to the run; there is nothing to rank without it.
type Source interface {
	ListCandidates(ctx context.Context, hints models.FilterHints) ([]models.CatalogItem, error)
}

// PostgresSource reads candidates from the packages table, narrowed by
// whatever filter hints the caller supplies.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-postgres"}),
	}
}

func (s *PostgresSource) ListCandidates(ctx context.Context, hints models.FilterHints) ([]models.CatalogItem, error) {
	query := `
		SELECT id, name, category, price, capacity, description, inclusions
		FROM packages
		WHERE active = true`
	var args []interface{}

	if hints.Category != "" {
		args = append(args, hints.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if hints.MaxPrice > 0 {
		args = append(args, hints.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if hints.MinCapacity > 0 {
		args = append(args, hints.MinCapacity)
		query += fmt.Sprintf(" AND capacity >= $%d", len(args))
	}

	limit := hints.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("query packages: %v", err))
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		var description, inclusions sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price,
			&item.Capacity, &description, &inclusions); err != nil {
			return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("scan package row: %v", err))
		}
		item.Description = description.String
		item.Inclusions = inclusions.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("iterate package rows: %v", err))
	}

	s.logger.Debug("loaded candidates", map[string]interface{}{
		"count":    len(items),
		"category": hints.Category,
	})

	return items, nil
}

// describeHints renders hints compactly for diagnostics.
func describeHints(hints models.FilterHints) string {
	var parts []string
	if hints.Category != "" {
		parts = append(parts, "category="+hints.Category)
	}
	if hints.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("maxPrice=%.2f", hints.MaxPrice))
	}
	if hints.MinCapacity > 0 {
		parts = append(parts, fmt.Sprintf("minCapacity=%d", hints.MinCapacity))
	}
	if len(hints.Keywords) > 0 {
		parts = append(parts, "keywords="+strings.Join(hints.Keywords, ","))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
