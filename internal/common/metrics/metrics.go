// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_rankings_total",
			Help: "Total number of ranking requests by cache outcome",
		},
		[]string{"cache"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "recommender_ranking_duration_seconds",
			Help: "Duration of full ranking evaluations in seconds",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_hits_total",
			Help: "Cache hits per cache tier",
		},
		[]string{"tier"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_misses_total",
			Help: "Cache misses per cache tier",
		},
		[]string{"tier"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_errors_total",
			Help: "Cache backend errors per cache tier",
		},
		[]string{"tier"},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_strategy_failures_total",
			Help: "Strategy evaluations degraded to a zero contribution",
		},
		[]string{"strategy"},
	)

	SemanticCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_semantic_calls_total",
			Help: "Calls to the semantic scoring dependency by outcome",
		},
		[]string{"status"},
	)
)
