// cmd/recommender/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"event-recommender/internal/catalog"
	"event-recommender/internal/common/config"
	"event-recommender/internal/common/database"
	"event-recommender/internal/common/logger"
	"event-recommender/internal/common/observability"
	"event-recommender/internal/models"
	"event-recommender/internal/popularity"
	"event-recommender/internal/ranking"
	"event-recommender/internal/resultcache"
	"event-recommender/internal/scoring"
	"event-recommender/internal/semantic"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recommender...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("recommender")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Candidate source: Elasticsearch when enabled, Postgres otherwise ---
	var source catalog.Source = catalog.NewPostgresSource(pg.DB, log)

	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		source = catalog.NewSearchSource(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Build scoring strategies ---
	statsProvider := popularity.NewProvider(
		&popularity.Config{
			CacheTTL: config.GetTTL(cfg.Caches.PopularityTTL),
		},
		pg.DB, rdb.Client, log,
	)

	semanticScorer := semantic.NewScorer(
		&semantic.Config{
			Enabled:     cfg.APIs.GenAI.Enabled,
			BaseURL:     cfg.APIs.GenAI.BaseURL,
			APIKey:      cfg.APIs.GenAI.APIKey,
			Timeout:     config.GetDuration(cfg.APIs.GenAI.Timeout),
			MaxRetries:  cfg.APIs.GenAI.MaxRetries,
			MaxInFlight: cfg.APIs.GenAI.MaxInFlight,
			CacheTTL:    config.GetTTL(cfg.Caches.SemanticTTL),
		},
		rdb.Client, log,
	)

	var semanticStrategy scoring.Strategy
	if cfg.APIs.GenAI.Enabled {
		semanticStrategy = scoring.NewSemanticStrategy(semanticScorer, log)
	}

	strategies := scoring.Registry(
		scoring.NewPopularityStrategy(statsProvider, log),
		semanticStrategy,
	)

	cache := resultcache.New(
		&resultcache.Config{
			TTL: config.GetTTL(cfg.Caches.ResultTTL),
		},
		rdb.Client, log,
	)

	orchestrator := ranking.New(
		&ranking.Config{
			PoolSize: cfg.Ranking.PoolSize,
		},
		strategies, cache, source, obs, log,
	)

	zapLog.Info("Ranking orchestrator ready",
		zap.Int("strategies", len(strategies)),
		zap.Int("poolSize", cfg.Ranking.PoolSize),
	)

	// --- Ranking API, Health & Metrics Server ---
	go func() {
		http.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}

			var criteria models.Criteria
			if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
				http.Error(w, "invalid criteria payload", http.StatusBadRequest)
				return
			}

			hints := models.FilterHints{
				Category: criteria.TypeValue(),
				Limit:    cfg.Ranking.CandidateLimit,
			}

			entries, err := orchestrator.RankFromSource(r.Context(), criteria, hints)
			if err != nil {
				zapLog.Error("ranking failed", zap.Error(err))
				http.Error(w, "candidate source unavailable", http.StatusServiceUnavailable)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"recommendations": ranking.Summarize(entries),
				"count":           len(entries),
			})
		})
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/cache/stats", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(orchestrator.CacheStats())
		})
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("HTTP server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	zapLog.Info("Recommender stopped gracefully")
}
