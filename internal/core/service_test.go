package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/risk"
)

func newEngine(t *testing.T, cache core.PredictionCache) *core.RiskEngine {
	t.Helper()
	return core.NewRiskEngine(testConfig(), cache, zaptest.NewLogger(t),
		core.CacheSettings{Enabled: cache != nil, TTL: time.Hour})
}

func TestRiskEngine_UntrainedIsDegraded(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()

	assert.Nil(t, engine.Bundle())
	got := engine.Predict(ctx, portfolio(1)[0])
	assert.Equal(t, risk.Unknown, got.RiskLevel)
	assert.Nil(t, got.PredictedLabel)

	report := engine.AnalyzePortfolio(ctx, portfolio(6))
	assert.NotEmpty(t, report.ID)
	assert.Zero(t, report.BundleVersion)
	assert.Equal(t, 6, report.TotalPending)
	assert.Empty(t, report.HighRiskPending)
}

func TestRiskEngine_TrainVersionsBundles(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()

	first, err := engine.Train(ctx, portfolio(21))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	firstID := engine.Bundle().ID

	second, err := engine.Train(ctx, portfolio(24))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, firstID, engine.Bundle().ID)
	assert.Equal(t, engine.Bundle().ID, second.BundleID)

	report := engine.AnalyzePortfolio(ctx, portfolio(3))
	assert.Equal(t, 2, report.BundleVersion)
	assert.Equal(t, second.BundleID, report.BundleID)
}

func TestRiskEngine_FailedTrainingKeepsBundle(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()

	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)
	before := engine.Bundle()

	_, err = engine.Train(ctx, portfolio(5))
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Same(t, before, engine.Bundle())
}

func TestRiskEngine_PredictionCache(t *testing.T) {
	cache := newFakeCache()
	engine := newEngine(t, cache)
	ctx := context.Background()
	r := portfolio(1)[0]

	// nothing is cached without a usable bundle
	engine.Predict(ctx, r)
	assert.Zero(t, cache.sets)

	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)

	first := engine.Predict(ctx, r)
	second := engine.Predict(ctx, r)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)

	key := engine.Bundle().ID + ":" + r.Fingerprint()
	require.Contains(t, cache.entries, key)
	assert.Equal(t, engine.Bundle().ID, cache.entries[key].BundleID)

	// a new bundle never reads entries written for the old one
	_, err = engine.Train(ctx, portfolio(22))
	require.NoError(t, err)
	engine.Predict(ctx, r)
	assert.Equal(t, 2, cache.sets)
}

func TestRiskEngine_CacheErrorsFallThrough(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("disk on fire")
	engine := newEngine(t, cache)
	ctx := context.Background()

	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)

	got := engine.Predict(ctx, portfolio(2)[1])
	assert.NotEqual(t, risk.Unknown, got.RiskLevel)
	assert.Equal(t, 1, cache.sets)
}

func TestRiskEngine_CachedResultsAreIndependent(t *testing.T) {
	cache := newFakeCache()
	engine := newEngine(t, cache)
	ctx := context.Background()
	r := portfolio(1)[0]

	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)

	first := engine.Predict(ctx, r)
	require.NotEmpty(t, first.Probabilities)
	want := first.Clone()

	for k := range first.Probabilities {
		first.Probabilities[k] = -1
	}
	if first.PredictedLabel != nil {
		*first.PredictedLabel = "tampered"
	}

	second := engine.Predict(ctx, r)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, want, second)

	for k := range second.Probabilities {
		second.Probabilities[k] = -1
	}
	assert.Equal(t, want, engine.Predict(ctx, r))
}

func TestRiskEngine_CacheHitRescores(t *testing.T) {
	cache := newFakeCache()
	engine := newEngine(t, cache)
	ctx := context.Background()
	r := portfolio(1)[0]

	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)

	first := engine.Predict(ctx, r)
	key := engine.Bundle().ID + ":" + r.Fingerprint()
	require.Contains(t, cache.entries, key)

	// an entry written on an earlier day carries an older score
	cache.entries[key].Result.RiskScore = 999
	cache.entries[key].Result.RiskLevel = risk.Critical

	second := engine.Predict(ctx, r)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.Probabilities, second.Probabilities)
}

func TestPredictionResult_Clone(t *testing.T) {
	label := "Pending review"
	p := core.PredictionResult{
		PredictedLabel: &label,
		Confidence:     0.6,
		RiskLevel:      risk.Medium,
		Probabilities:  map[string]float64{"Pending review": 0.6, "Executed": 0.4},
	}

	c := p.Clone()
	assert.Equal(t, p, c)

	*c.PredictedLabel = "Executed"
	c.Probabilities["Executed"] = 1
	assert.Equal(t, "Pending review", label)
	assert.Equal(t, 0.4, p.Probabilities["Executed"])

	empty := core.DegradedPrediction().Clone()
	assert.Nil(t, empty.PredictedLabel)
	assert.Nil(t, empty.Probabilities)
}

func TestRiskEngine_RecommendAndFeatures(t *testing.T) {
	engine := newEngine(t, nil)
	ctx := context.Background()

	r := portfolio(1)[0]
	r[record.FieldDate] = daysAgo(120)
	recs := engine.Recommend(ctx, r)
	assert.Contains(t, recs, "URGENT: Contract pending over 90 days - executive intervention required")

	v := engine.EngineerFeatures(r)
	assert.Equal(t, 120, v.AgeDays)
	assert.Equal(t, 3.0, v.Get(features.PriorityLevel))
}

func TestRiskEngine_ConcurrentTrainAndPredict(t *testing.T) {
	engine := newEngine(t, newFakeCache())
	ctx := context.Background()
	_, err := engine.Train(ctx, portfolio(20))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Train(ctx, portfolio(21))
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got := engine.Predict(ctx, portfolio(8)[i])
			assert.NotEqual(t, risk.Unknown, got.RiskLevel)
			report := engine.AnalyzePortfolio(ctx, portfolio(4))
			assert.Equal(t, 4, report.TotalPending)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, engine.Bundle().Version)
}
