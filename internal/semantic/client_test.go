// internal/semantic/client_test.go
package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	commonerrors "event-recommender/internal/common/errors"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCriteria() models.Criteria {
	theme := "elegant"
	return models.Criteria{Theme: &theme, Preferences: []string{"catering"}}
}

func testConfig(baseURL string) *Config {
	return &Config{
		Enabled:     true,
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		MaxRetries:  1,
		MaxInFlight: 2,
		CacheTTL:    2 * time.Hour,
	}
}

func scoreServer(t *testing.T, score float64, reason string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/score-match", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "itemSummary")
		assert.Contains(t, body, "criteriaSummary")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"score": score, "reason": reason})
	}))
}

func TestScorer_ScoreMatch_Success(t *testing.T) {
	server := scoreServer(t, 24, "Strong thematic fit")
	defer server.Close()

	scorer := NewScorer(testConfig(server.URL), nil, logger.NewNoOpLogger())

	points, reason, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1, Name: "Ballroom"}, testCriteria())
	require.NoError(t, err)
	assert.Equal(t, 24, points)
	assert.Equal(t, "Strong thematic fit", reason)
}

func TestScorer_ScoreMatch_ClampsToRange(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected int
	}{
		{name: "above ceiling", score: 95, expected: 30},
		{name: "below floor", score: -10, expected: 0},
		{name: "at ceiling", score: 30, expected: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := scoreServer(t, tt.score, "r")
			defer server.Close()

			scorer := NewScorer(testConfig(server.URL), nil, logger.NewNoOpLogger())

			points, _, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1}, testCriteria())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, points)
		})
	}
}

func TestScorer_ScoreMatch_Disabled(t *testing.T) {
	scorer := NewScorer(&Config{Enabled: false}, nil, logger.NewNoOpLogger())

	_, _, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1}, testCriteria())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSemanticUnavailable, commonerrors.CodeOf(err))
}

func TestScorer_ScoreMatch_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verdict":"great"}`))
	}))
	defer server.Close()

	scorer := NewScorer(testConfig(server.URL), nil, logger.NewNoOpLogger())

	_, _, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1}, testCriteria())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSemanticScoringFailed, commonerrors.CodeOf(err))
}

func TestScorer_ScoreMatch_UpstreamErrorAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scorer := NewScorer(testConfig(server.URL), nil, logger.NewNoOpLogger())

	_, _, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1}, testCriteria())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSemanticScoringFailed, commonerrors.CodeOf(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one attempt plus one retry")
}

func TestScorer_ScoreMatch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]interface{}{"score": 10})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxRetries = 0
	scorer := NewScorer(cfg, nil, logger.NewNoOpLogger())

	_, _, err := scorer.ScoreMatch(context.Background(), models.CatalogItem{ID: 1}, testCriteria())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSemanticTimeout, commonerrors.CodeOf(err))
}

func TestScorer_ScoreMatch_CachesResult(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"score": 18, "reason": "Good fit"})
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	scorer := NewScorer(testConfig(server.URL), rdb, logger.NewNoOpLogger())
	item := models.CatalogItem{ID: 5, Name: "Garden Pavilion"}

	points, _, err := scorer.ScoreMatch(context.Background(), item, testCriteria())
	require.NoError(t, err)
	assert.Equal(t, 18, points)

	points, reason, err := scorer.ScoreMatch(context.Background(), item, testCriteria())
	require.NoError(t, err)
	assert.Equal(t, 18, points)
	assert.Equal(t, "Good fit", reason)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call must be served from cache")

	// Equivalent criteria with reordered preferences share the cache entry.
	theme := " Elegant "
	reordered := models.Criteria{Theme: &theme, Preferences: []string{" catering "}}
	points, _, err = scorer.ScoreMatch(context.Background(), item, reordered)
	require.NoError(t, err)
	assert.Equal(t, 18, points)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	mr.FastForward(3 * time.Hour)
	_, _, err = scorer.ScoreMatch(context.Background(), item, testCriteria())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "expired entry triggers a fresh call")
}
