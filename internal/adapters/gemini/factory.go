package gemini

import (
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of Narrator
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Narrator instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNarrator creates a new Gemini narrator
func (f *Factory) CreateNarrator() (*Narrator, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewNarrator(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxReportSize,
		f.logger,
		f.textProcessor,
	)
}
