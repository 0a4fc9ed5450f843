package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/factory"
	"github.com/mikey/contract-sentinel/internal/logging"
	"github.com/mikey/contract-sentinel/internal/ports"
	"github.com/mikey/contract-sentinel/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideCommon(container); err != nil {
		return nil, err
	}

	// Register record source
	if err := container.Provide(func(f *factory.SourceFactory) (ports.RecordSource, error) {
		return f.CreateRecordSource("")
	}); err != nil {
		return nil, err
	}

	// Register scheduled runner
	if err := container.Provide(factory.NewRunnerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.RunnerFactory) (ports.Runner, error) {
		return f.CreateRunner()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCommon registers everything both binaries share: factories, the
// text processor, adapters and the risk engine
func provideCommon(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register narrator
	if err := container.Provide(func(f *factory.LLMFactory) (core.Narrator, error) {
		return f.CreateNarrator()
	}); err != nil {
		return err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return err
	}

	// Register prediction cache and its settings
	if err := container.Provide(func(f *factory.CacheFactory) (core.PredictionCache, error) {
		return f.CreatePredictionCache()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheSettings, error) {
		return f.GetCacheSettings()
	}); err != nil {
		return err
	}

	// Register engine configuration
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.Config {
		engineCfg := cfg.GetEngine()
		logger.Debug("Engine configuration loaded",
			zap.Int("min_training_records", engineCfg.MinTrainingRecords),
			zap.Float64("confidence_threshold", engineCfg.ConfidenceThreshold),
			zap.Strings("closed_statuses", engineCfg.ClosedStatuses))
		return engineCfg
	}); err != nil {
		return err
	}

	// Register risk engine
	return container.Provide(core.NewRiskEngine)
}
