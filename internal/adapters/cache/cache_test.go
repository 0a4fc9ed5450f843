package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/contract-sentinel/internal/adapters/cache"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/risk"
)

func entry(key string, ttl time.Duration) *core.CacheEntry {
	label := "Awaiting signature"
	now := time.Now()
	return &core.CacheEntry{
		Key:      key,
		BundleID: "bundle-1",
		Result: core.PredictionResult{
			PredictedLabel: &label,
			Confidence:     0.72,
			IsAnomaly:      true,
			RiskLevel:      risk.High,
			RiskScore:      34.5,
			Probabilities:  map[string]float64{"Awaiting signature": 0.72, "Pending review": 0.28},
		},
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// exercise runs the behaviour every PredictionCache must share
func exercise(t *testing.T, c core.PredictionCache) {
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := entry("bundle-1:abc", time.Hour)
	require.NoError(t, c.Set(ctx, want))

	got, err = c.Get(ctx, want.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.BundleID, got.BundleID)
	assert.Equal(t, want.Result, got.Result)
	assert.Equal(t, want.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	// overwrite
	updated := entry(want.Key, time.Hour)
	updated.Result.RiskLevel = risk.Critical
	require.NoError(t, c.Set(ctx, updated))
	got, err = c.Get(ctx, want.Key)
	require.NoError(t, err)
	assert.Equal(t, risk.Critical, got.Result.RiskLevel)

	expired := entry("bundle-1:old", -time.Minute)
	require.NoError(t, c.Set(ctx, expired))
	got, err = c.Get(ctx, expired.Key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Cleanup(ctx))
	require.NoError(t, c.Delete(ctx, want.Key))
	got, err = c.Get(ctx, want.Key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache(t *testing.T) {
	c := cache.NewMemoryCache(zaptest.NewLogger(t), time.Hour)
	defer c.Stop()

	exercise(t, c)
}

func TestMemoryCache_CleanupDropsExpired(t *testing.T) {
	c := cache.NewMemoryCache(zaptest.NewLogger(t), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("live", time.Hour)))
	require.NoError(t, c.Set(ctx, entry("dead", -time.Second)))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Cleanup(ctx))
	assert.Equal(t, 1, c.Len())

	// stopping twice is harmless
	c.Stop()
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := cache.NewMemoryCache(zaptest.NewLogger(t), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	e := entry("k", time.Hour)
	require.NoError(t, c.Set(ctx, e))
	e.BundleID = "mutated"

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "bundle-1", got.BundleID)
}

func TestMemoryCache_ResultsDoNotAlias(t *testing.T) {
	c := cache.NewMemoryCache(zaptest.NewLogger(t), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	e := entry("k", time.Hour)
	require.NoError(t, c.Set(ctx, e))
	e.Result.Probabilities["Pending review"] = -1
	*e.Result.PredictedLabel = "Executed"

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	for k := range got.Result.Probabilities {
		got.Result.Probabilities[k] = -1
	}
	*got.Result.PredictedLabel = "Terminated"

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Awaiting signature": 0.72, "Pending review": 0.28}, again.Result.Probabilities)
	assert.Equal(t, "Awaiting signature", again.Result.Label())
}

func TestSQLiteCache(t *testing.T) {
	c, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zaptest.NewLogger(t), time.Hour)
	require.NoError(t, err)
	defer c.Stop()

	exercise(t, c)
}
