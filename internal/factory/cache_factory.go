package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/contract-sentinel/internal/adapters/cache"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates prediction caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePredictionCache creates a prediction cache based on the configuration
// A disabled cache yields nil
func (f *CacheFactory) CreatePredictionCache() (core.PredictionCache, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	if !cacheCfg.Enabled {
		f.logger.Info("Prediction cache disabled")
		return nil, nil
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cacheCfg.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cacheCfg.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

// GetCacheSettings returns the engine-side cache settings
func (f *CacheFactory) GetCacheSettings() (core.CacheSettings, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return core.CacheSettings{}, err
	}
	return core.CacheSettings{
		Enabled: cacheCfg.Enabled,
		TTL:     cacheCfg.TTL,
	}, nil
}
