package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/adapters/gemini"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini narrators
type GeminiFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeminiFactory {
	return &GeminiFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNarrator creates a Gemini narrator
func (f *GeminiFactory) CreateNarrator() (core.Narrator, error) {
	geminiCfg := f.cfg.GetGemini()

	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	narrator, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	if err != nil {
		return nil, err
	}
	return narrator, nil
}
