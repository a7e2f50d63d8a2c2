// internal/semantic/client.go
package semantic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	commonerrors "event-recommender/internal/common/errors"
	commonhttp "event-recommender/internal/common/http"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/common/metrics"
	"event-recommender/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

const (
	cacheKeyPrefix = "evtrec:sem:"
	maxScore       = 30
)

// responseSchema guards against malformed payloads from the dependency
// before any field is trusted.
var responseSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score":  {"type": "number"},
		"reason": {"type": "string"}
	}
}`)

type Config struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	MaxInFlight int
	CacheTTL    time.Duration
}

// Scorer is a thin client for the external semantic-scoring dependency.
// Every call carries a hard timeout, successful scores are clamped to
// [0, 30] and cached in Redis, and concurrent external calls are bounded
// by a semaphore so an exhausted pool queues instead of fanning out.
type Scorer struct {
	config *Config
	client *commonhttp.Client
	redis  *redis.Client
	sem    chan struct{}
	logger logger.Logger
}

func NewScorer(config *Config, rdb *redis.Client, log logger.Logger) *Scorer {
	maxInFlight := config.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	return &Scorer{
		config: config,
		// No client-level timeout; deadlines come from the per-call context.
		client: commonhttp.NewClient(0),
		redis:  rdb,
		sem:    make(chan struct{}, maxInFlight),
		logger: log.WithFields(map[string]interface{}{"component": "semantic-scorer"}),
	}
}

// ScoreMatch rates how well the item matches the free-text criteria on a
// 0-30 scale. Any failure is returned as a typed error for the caller to
// degrade; this method never panics and never blocks past its timeout.
func (s *Scorer) ScoreMatch(ctx context.Context, item models.CatalogItem, criteria models.Criteria) (int, string, error) {
	if s.config == nil || !s.config.Enabled || s.config.BaseURL == "" {
		return 0, "", commonerrors.NewSemanticUnavailableError("semantic scorer not configured")
	}

	cacheKey := s.cacheKey(item.ID, criteria)
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached scoreResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				metrics.SemanticCalls.WithLabelValues("cache_hit").Inc()
				return clamp(int(cached.Score)), cached.Reason, nil
			}
		}
	}

	// Back-pressure: queue for a slot rather than spawning unbounded
	// concurrent calls to the dependency.
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		metrics.SemanticCalls.WithLabelValues("timeout").Inc()
		return 0, "", commonerrors.NewSemanticTimeoutError("timed out waiting for a call slot")
	}

	resp, err := s.call(ctx, item, criteria)
	if err != nil {
		return 0, "", err
	}

	points := clamp(int(resp.Score))

	if s.redis != nil {
		// Cache write runs on its own short deadline so an aborted caller
		// cannot leave the shared cache half-written.
		wctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		data, _ := json.Marshal(scoreResponse{Score: float64(points), Reason: resp.Reason})
		if err := s.redis.Set(wctx, cacheKey, data, s.config.CacheTTL).Err(); err != nil {
			s.logger.Warn("semantic cache write failed", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		}
	}

	metrics.SemanticCalls.WithLabelValues("success").Inc()
	return points, resp.Reason, nil
}

type scoreResponse struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func (s *Scorer) call(ctx context.Context, item models.CatalogItem, criteria models.Criteria) (*scoreResponse, error) {
	requestBody := map[string]interface{}{
		"itemSummary":     itemSummary(item),
		"criteriaSummary": criteriaSummary(criteria),
		"scale":           maxScore,
	}
	body, _ := json.Marshal(requestBody)

	cctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-cctx.Done():
				metrics.SemanticCalls.WithLabelValues("timeout").Inc()
				return nil, commonerrors.NewSemanticTimeoutError(cctx.Err().Error())
			}
		}

		// A fresh request per attempt: the body reader is consumed on send.
		req, err := http.NewRequestWithContext(cctx, "POST", s.config.BaseURL+"/api/ai/score-match", bytes.NewBuffer(body))
		if err != nil {
			return nil, commonerrors.NewSemanticScoringError(err.Error())
		}
		req.Header.Set("Content-Type", "application/json")
		if s.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
		}

		resp, lastErr = s.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if cctx.Err() != nil {
			metrics.SemanticCalls.WithLabelValues("timeout").Inc()
			return nil, commonerrors.NewSemanticTimeoutError(cctx.Err().Error())
		}
	}

	if lastErr != nil {
		if cctx.Err() == context.DeadlineExceeded {
			metrics.SemanticCalls.WithLabelValues("timeout").Inc()
			return nil, commonerrors.NewSemanticTimeoutError(lastErr.Error())
		}
		metrics.SemanticCalls.WithLabelValues("error").Inc()
		return nil, commonerrors.NewSemanticScoringError(lastErr.Error())
	}

	if resp == nil {
		metrics.SemanticCalls.WithLabelValues("error").Inc()
		return nil, commonerrors.NewSemanticScoringError("no successful response after retries")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SemanticCalls.WithLabelValues("error").Inc()
		return nil, commonerrors.NewSemanticScoringError(fmt.Sprintf("read response: %v", err))
	}

	validation, err := gojsonschema.Validate(responseSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil || !validation.Valid() {
		metrics.SemanticCalls.WithLabelValues("error").Inc()
		return nil, commonerrors.NewSemanticScoringError("response failed schema validation")
	}

	var parsed scoreResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.SemanticCalls.WithLabelValues("error").Inc()
		return nil, commonerrors.NewSemanticScoringError(fmt.Sprintf("decode response: %v", err))
	}

	return &parsed, nil
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func itemSummary(item models.CatalogItem) string {
	return fmt.Sprintf("%s | %s | price %.2f | capacity %d | %s",
		item.Name, item.Category, item.Price, item.Capacity, item.Description)
}

func criteriaSummary(criteria models.Criteria) string {
	var parts []string
	if th := criteria.ThemeValue(); th != "" {
		parts = append(parts, "theme: "+th)
	}
	if len(criteria.Preferences) > 0 {
		parts = append(parts, "preferences: "+strings.Join(criteria.Preferences, ", "))
	}
	return strings.Join(parts, "; ")
}

// cacheKey hashes the normalized free-text subset of the criteria, so
// identical requests reuse one external call regardless of list order or
// whitespace.
func (s *Scorer) cacheKey(itemID int64, criteria models.Criteria) string {
	prefs := make([]string, 0, len(criteria.Preferences))
	for _, p := range criteria.Preferences {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			prefs = append(prefs, p)
		}
	}
	sort.Strings(prefs)

	payload := strings.ToLower(criteria.ThemeValue()) + "|" + strings.Join(prefs, ",")
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix, itemID, hex.EncodeToString(sum[:8]))
}
