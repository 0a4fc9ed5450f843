package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/adapters/openai"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// OpenAIFactory creates OpenAI narrators
type OpenAIFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNarrator creates an OpenAI narrator
func (f *OpenAIFactory) CreateNarrator() (core.Narrator, error) {
	if f.cfg.GetOpenAI().APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	narrator, err := openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	if err != nil {
		return nil, err
	}
	return narrator, nil
}
