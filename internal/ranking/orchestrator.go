// internal/ranking/orchestrator.go
package ranking

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-recommender/internal/catalog"
	commonerrors "event-recommender/internal/common/errors"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/common/metrics"
	"event-recommender/internal/common/observability"
	"event-recommender/internal/models"
	"event-recommender/internal/resultcache"
	"event-recommender/internal/scoring"

	"github.com/google/uuid"
)

type Config struct {
	PoolSize int
}

// Orchestrator runs every registered strategy against every candidate,
// sums the contributions, and returns the entries sorted by total score.
// Candidates are evaluated in parallel on a bounded pool; strategies for
// one candidate run in registration order so justification order is
// stable. A single misbehaving strategy never fails the run.
type Orchestrator struct {
	config     *Config
	strategies []scoring.Strategy
	cache      *resultcache.Cache
	source     catalog.Source
	obs        *observability.Observability
	logger     logger.Logger
}

func New(config *Config, strategies []scoring.Strategy, cache *resultcache.Cache,
	source catalog.Source, obs *observability.Observability, log logger.Logger) *Orchestrator {
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = 8
	}
	return &Orchestrator{
		config:     &Config{PoolSize: poolSize},
		strategies: strategies,
		cache:      cache,
		source:     source,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "ranking-orchestrator"}),
	}
}

// Rank scores the given candidates against the criteria. Results for
// equivalent criteria are served from the cache; on a miss the full
// evaluation runs and the fresh result is written back.
func (o *Orchestrator) Rank(ctx context.Context, criteria models.Criteria, candidates []models.CatalogItem) []models.RankedEntry {
	requestID := uuid.New().String()
	start := time.Now()

	log := o.logger.WithFields(map[string]interface{}{"requestId": requestID})

	if o.cache != nil {
		if entries, ok := o.cache.Get(ctx, criteria); ok {
			metrics.RankingsTotal.WithLabelValues("hit").Inc()
			o.recordDuration(ctx, start, "cache_hit")
			log.Debug("served ranking from cache", map[string]interface{}{
				"entries": len(entries),
			})
			return entries
		}
		metrics.RankingsTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.RankingsTotal.WithLabelValues("disabled").Inc()
	}

	entries := o.evaluateAll(ctx, criteria, candidates)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Item.ID < entries[j].Item.ID
	})

	if o.cache != nil && len(entries) > 0 {
		if err := o.cache.Put(ctx, criteria, entries); err != nil {
			log.Warn("failed to cache ranking result", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	o.recordDuration(ctx, start, "evaluated")
	log.Info("ranking evaluated", map[string]interface{}{
		"candidates": len(candidates),
		"strategies": len(o.strategies),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return entries
}

// RankFromSource loads the candidate pool from the configured source and
// ranks it. A source failure is fatal; there is nothing to degrade to.
func (o *Orchestrator) RankFromSource(ctx context.Context, criteria models.Criteria, hints models.FilterHints) ([]models.RankedEntry, error) {
	if o.source == nil {
		return nil, commonerrors.NewCandidateSourceError("no candidate source configured")
	}

	candidates, err := o.source.ListCandidates(ctx, hints)
	if err != nil {
		o.obs.RecordRanking(ctx, "source_error")
		return nil, err
	}

	entries := o.Rank(ctx, criteria, candidates)
	o.obs.RecordRanking(ctx, "success")
	return entries, nil
}

func (o *Orchestrator) evaluateAll(ctx context.Context, criteria models.Criteria, candidates []models.CatalogItem) []models.RankedEntry {
	entries := make([]models.RankedEntry, len(candidates))

	sem := make(chan struct{}, o.config.PoolSize)
	var wg sync.WaitGroup

	for i, item := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, item models.CatalogItem) {
			defer wg.Done()
			defer func() { <-sem }()
			entries[idx] = o.evaluate(ctx, item, criteria)
		}(i, item)
	}
	wg.Wait()

	return entries
}

// evaluate runs every strategy against one item in registration order.
func (o *Orchestrator) evaluate(ctx context.Context, item models.CatalogItem, criteria models.Criteria) models.RankedEntry {
	entry := models.RankedEntry{
		Item:           item,
		Justifications: []string{},
	}

	for _, strategy := range o.strategies {
		result := o.safeScore(ctx, strategy, item, criteria)
		entry.TotalScore += result.Points
		if result.Justification != "" {
			entry.Justifications = append(entry.Justifications, result.Justification)
		}
	}

	return entry
}

// safeScore shields the run from a panicking strategy: the contribution
// degrades to zero and the failure is counted.
func (o *Orchestrator) safeScore(ctx context.Context, strategy scoring.Strategy, item models.CatalogItem, criteria models.Criteria) (result models.StrategyResult) {
	defer func() {
		if r := recover(); r != nil {
			metrics.StrategyFailures.WithLabelValues(strategy.Name()).Inc()
			o.logger.Error("strategy panicked, contribution degraded to zero", map[string]interface{}{
				"strategy": strategy.Name(),
				"itemId":   item.ID,
				"panic":    r,
			})
			result = models.StrategyResult{}
		}
	}()
	return strategy.Score(ctx, item, criteria)
}

// Invalidate drops the cached result for the criteria.
func (o *Orchestrator) Invalidate(ctx context.Context, criteria models.Criteria) error {
	if o.cache == nil {
		return nil
	}
	return o.cache.Forget(ctx, criteria)
}

// CacheStats exposes the result-cache configuration, or a zero value when
// caching is disabled.
func (o *Orchestrator) CacheStats() resultcache.Stats {
	if o.cache == nil {
		return resultcache.Stats{}
	}
	return o.cache.Stats()
}

// Summarize projects ranked entries into the compact caller-facing shape.
func Summarize(entries []models.RankedEntry) []models.RankedItem {
	items := make([]models.RankedItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.RankedItem{
			ItemID:         entry.Item.ID,
			TotalScore:     entry.TotalScore,
			Justifications: entry.Justifications,
		})
	}
	return items
}

func (o *Orchestrator) recordDuration(ctx context.Context, start time.Time, status string) {
	elapsed := time.Since(start)
	metrics.RankingDuration.Observe(elapsed.Seconds())
	o.obs.RecordRankingDuration(ctx, elapsed, status)
}
