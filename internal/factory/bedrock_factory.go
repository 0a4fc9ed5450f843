package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/adapters/bedrock"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// BedrockFactory creates Bedrock narrators
type BedrockFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *BedrockFactory {
	return &BedrockFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNarrator creates a Bedrock narrator
func (f *BedrockFactory) CreateNarrator() (core.Narrator, error) {
	bedrockCfg := f.cfg.GetBedrock()

	if bedrockCfg.ModelID == "" {
		return nil, fmt.Errorf("bedrock model ID is required")
	}

	narrator, err := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateNarrator()
	if err != nil {
		return nil, err
	}
	return narrator, nil
}
