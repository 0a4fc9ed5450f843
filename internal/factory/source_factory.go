package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/adapters/source"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/ports"
	"go.uber.org/zap"
)

// SourceFactory creates record sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRecordSource creates a file source. A non-empty path overrides
// source.path
func (f *SourceFactory) CreateRecordSource(path string) (ports.RecordSource, error) {
	if path == "" {
		path = f.cfg.GetSource().Path
	}
	if path == "" {
		return nil, fmt.Errorf("no record source path configured")
	}
	return source.NewFileSource(path, f.logger), nil
}
