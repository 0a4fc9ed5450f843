package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates report narrators
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNarrator creates a narrator based on the configuration. The "none"
// provider yields nil and reports are delivered without a briefing
func (f *LLMFactory) CreateNarrator() (core.Narrator, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
