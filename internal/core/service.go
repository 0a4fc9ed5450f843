package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/record"
)

// CacheSettings controls the prediction cache
type CacheSettings struct {
	Enabled bool
	TTL     time.Duration
}

// RiskEngine owns the current bundle and serves training, prediction and
// portfolio analysis against it
type RiskEngine struct {
	cfg           Config
	trainer       *Trainer
	predictor     *Predictor
	analyzer      *Analyzer
	cache         PredictionCache
	cacheSettings CacheSettings
	logger        *zap.Logger

	mu      sync.RWMutex
	bundle  *Bundle
	trainMu sync.Mutex
}

// NewRiskEngine creates a new engine. cache may be nil
func NewRiskEngine(
	cfg Config,
	cache PredictionCache,
	logger *zap.Logger,
	cacheSettings CacheSettings,
) *RiskEngine {
	e := &RiskEngine{
		cfg:           cfg,
		trainer:       NewTrainer(cfg, logger),
		predictor:     NewPredictor(cfg, logger),
		cache:         cache,
		cacheSettings: cacheSettings,
		logger:        logger,
	}
	e.analyzer = NewAnalyzer(cfg, e.predictWith, logger)
	return e
}

// Bundle returns the current bundle snapshot, nil before the first training
func (e *RiskEngine) Bundle() *Bundle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bundle
}

// Train fits a new bundle on records and publishes it. On failure the
// previous bundle stays in place
func (e *RiskEngine) Train(ctx context.Context, records []record.Record) (*TrainingSummary, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()
	bundle, summary, err := e.trainer.Train(records)
	if err != nil {
		e.logger.Warn("Training failed", zap.Int("records", len(records)), zap.Error(err))
		return nil, err
	}

	e.mu.Lock()
	if e.bundle != nil {
		bundle.Version = e.bundle.Version + 1
	} else {
		bundle.Version = 1
	}
	e.bundle = bundle
	e.mu.Unlock()

	summary.Version = bundle.Version

	fields := []zap.Field{
		zap.String("bundle_id", bundle.ID),
		zap.Int("version", bundle.Version),
		zap.Int("open_records", summary.OpenRecords),
		zap.Int("classes", len(summary.Classes)),
		zap.Duration("duration", time.Since(start)),
	}
	if summary.Accuracy != nil {
		fields = append(fields, zap.Float64("accuracy", *summary.Accuracy))
	}
	e.logger.Info("Model trained", fields...)

	return summary, nil
}

// Predict scores one record against the current bundle
func (e *RiskEngine) Predict(ctx context.Context, r record.Record) PredictionResult {
	return e.predictWith(ctx, r, e.Bundle())
}

// AnalyzePortfolio runs the pending-portfolio analysis against one bundle
// snapshot taken at the start of the pass
func (e *RiskEngine) AnalyzePortfolio(ctx context.Context, records []record.Record) *AnalysisReport {
	b := e.Bundle()
	report := e.analyzer.Analyze(ctx, records, b)
	report.ID = uuid.NewString()
	return report
}

// Recommend returns the ordered recommendation list for one record
func (e *RiskEngine) Recommend(ctx context.Context, r record.Record) []string {
	return e.analyzer.Recommendations(ctx, r, e.Bundle())
}

// EngineerFeatures derives the vector of r against the current bundle's
// reference date
func (e *RiskEngine) EngineerFeatures(r record.Record) features.Vector {
	return e.predictor.Vector(r, e.Bundle())
}

func (e *RiskEngine) predictWith(ctx context.Context, r record.Record, b *Bundle) PredictionResult {
	if !b.Usable() || e.cache == nil || !e.cacheSettings.Enabled {
		return e.predictor.Predict(r, b)
	}

	key := b.ID + ":" + r.Fingerprint()
	entry, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("Failed to get prediction from cache", zap.String("key", key), zap.Error(err))
	} else if entry != nil && entry.BundleID == b.ID {
		e.logger.Debug("Cache hit", zap.String("key", key))
		return e.predictor.Rescore(r, b, entry.Result.Clone())
	}

	result := e.predictor.Predict(r, b)

	now := time.Now()
	entry = &CacheEntry{
		Key:       key,
		BundleID:  b.ID,
		Result:    result.Clone(),
		CachedAt:  now,
		ExpiresAt: now.Add(e.cacheSettings.TTL),
	}
	if err := e.cache.Set(ctx, entry); err != nil {
		e.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
	return result
}
