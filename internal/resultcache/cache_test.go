// internal/resultcache/cache_test.go
package resultcache

import (
	"context"
	"testing"
	"time"

	"event-recommender/internal/common/logger"
	"event-recommender/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := New(&Config{TTL: ttl}, rdb, logger.NewNoOpLogger())
	return cache, mr
}

func weddingCriteria(t *testing.T) models.Criteria {
	return decodeCriteria(t, `{"type":"wedding","budget":50000,"guests":100}`)
}

func rankedFixture() []models.RankedEntry {
	return []models.RankedEntry{
		{
			Item:           models.CatalogItem{ID: 2, Name: "Premium Package", Category: "wedding", Price: 48000, Capacity: 120},
			TotalScore:     85,
			Justifications: []string{"Matches your wedding event type", "Within budget"},
		},
		{
			Item:           models.CatalogItem{ID: 1, Name: "Basic Package", Category: "wedding", Price: 30000, Capacity: 80},
			TotalScore:     60,
			Justifications: []string{"Matches your wedding event type"},
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := setupCache(t, 10*time.Minute)
	ctx := context.Background()
	criteria := weddingCriteria(t)

	_, ok := cache.Get(ctx, criteria)
	assert.False(t, ok, "fresh cache must miss")

	require.NoError(t, cache.Put(ctx, criteria, rankedFixture()))

	entries, ok := cache.Get(ctx, criteria)
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].Item.ID)
	assert.Equal(t, 85, entries[0].TotalScore)
	assert.Equal(t, []string{"Matches your wedding event type", "Within budget"}, entries[0].Justifications)
}

func TestCache_EquivalentCriteriaShareEntry(t *testing.T) {
	cache, _ := setupCache(t, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, weddingCriteria(t), rankedFixture()))

	// Same criteria with different encodings and preference-free noise.
	equivalent := decodeCriteria(t, `{"type":"  wedding ","budget":"50000","guests":100.0,"preferences":[]}`)
	entries, ok := cache.Get(ctx, equivalent)
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestCache_TTLExpiry(t *testing.T) {
	cache, mr := setupCache(t, 5*time.Minute)
	ctx := context.Background()
	criteria := weddingCriteria(t)

	require.NoError(t, cache.Put(ctx, criteria, rankedFixture()))

	mr.FastForward(4 * time.Minute)
	_, ok := cache.Get(ctx, criteria)
	assert.True(t, ok, "entry should survive inside the TTL window")

	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, criteria)
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestCache_Forget(t *testing.T) {
	cache, _ := setupCache(t, 10*time.Minute)
	ctx := context.Background()
	criteria := weddingCriteria(t)

	require.NoError(t, cache.Put(ctx, criteria, rankedFixture()))
	require.NoError(t, cache.Forget(ctx, criteria))

	_, ok := cache.Get(ctx, criteria)
	assert.False(t, ok)
}

func TestCache_BackendDownTreatedAsMiss(t *testing.T) {
	cache, mr := setupCache(t, 10*time.Minute)
	ctx := context.Background()
	criteria := weddingCriteria(t)

	require.NoError(t, cache.Put(ctx, criteria, rankedFixture()))
	mr.Close()

	_, ok := cache.Get(ctx, criteria)
	assert.False(t, ok, "backend failure must degrade to a miss")
}

func TestCache_Stats(t *testing.T) {
	cache, _ := setupCache(t, 10*time.Minute)

	stats := cache.Stats()
	assert.Equal(t, "redis", stats.Backend)
	assert.Equal(t, 600, stats.DefaultTTL)
	assert.Equal(t, KeyPrefix, stats.KeyPrefix)
}
