package factory

import (
	"github.com/mikey/contract-sentinel/internal/adapters/runner"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/ports"
	"go.uber.org/zap"
)

// RunnerFactory creates the analysis pipeline and the scheduled runner
type RunnerFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *core.RiskEngine
	source   ports.RecordSource
	narrator core.Narrator
	notifier core.Notifier
}

// NewRunnerFactory creates a new runner factory
func NewRunnerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	engine *core.RiskEngine,
	source ports.RecordSource,
	narrator core.Narrator,
	notifier core.Notifier,
) *RunnerFactory {
	return &RunnerFactory{
		cfg:      cfg,
		logger:   logger,
		engine:   engine,
		source:   source,
		narrator: narrator,
		notifier: notifier,
	}
}

// CreatePipeline creates the pipeline a runner drives
func (f *RunnerFactory) CreatePipeline() *runner.Pipeline {
	return runner.NewPipeline(
		f.engine,
		f.source,
		f.narrator,
		f.notifier,
		f.cfg.GetRunner().Retrain,
		f.logger,
	)
}

// CreateRunner creates the cron runner from runner.schedule
func (f *RunnerFactory) CreateRunner() (ports.Runner, error) {
	runnerCfg := f.cfg.GetRunner()
	return runner.NewCronRunner(f.CreatePipeline(), runnerCfg.Schedule, runnerCfg.RunOnStart, f.logger)
}
