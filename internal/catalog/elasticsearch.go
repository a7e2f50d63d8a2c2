// internal/catalog/elasticsearch.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	commonerrors "event-recommender/internal/common/errors"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchSource reads candidates from an Elasticsearch index. It serves
// keyword-driven lookups where relevance of the candidate pool itself
// matters; structured filters become bool-query clauses.
type SearchSource struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchSource(client *elasticsearch.Client, index string, log logger.Logger) *SearchSource {
	return &SearchSource{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search"}),
	}
}

func (s *SearchSource) ListCandidates(ctx context.Context, hints models.FilterHints) ([]models.CatalogItem, error) {
	query := s.buildQuery(hints)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("encode search query: %v", err))
	}

	limit := hints.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
		Size:  &limit,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("search request: %v", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("search returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.CatalogItem `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, commonerrors.NewCandidateSourceError(fmt.Sprintf("decode search response: %v", err))
	}

	items := make([]models.CatalogItem, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}

	s.logger.Debug("search candidates loaded", map[string]interface{}{
		"count": len(items),
		"hints": describeHints(hints),
	})

	return items, nil
}

func (s *SearchSource) buildQuery(hints models.FilterHints) map[string]interface{} {
	var must []map[string]interface{}
	var filter []map[string]interface{}

	if len(hints.Keywords) > 0 {
		for _, kw := range hints.Keywords {
			must = append(must, map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  kw,
					"fields": []string{"name^3", "description^2", "inclusions"},
				},
			})
		}
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if hints.Category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category": hints.Category},
		})
	}
	if hints.MaxPrice > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"price": map[string]interface{}{"lte": hints.MaxPrice},
			},
		})
	}
	if hints.MinCapacity > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"capacity": map[string]interface{}{"gte": hints.MinCapacity},
			},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}
