package runner

import (
	"context"
	"fmt"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/ports"
	"go.uber.org/zap"
)

// PassResult is everything one analysis pass produced
type PassResult struct {
	Report   *core.AnalysisReport
	Training *core.TrainingSummary
	TrainErr error
}

// Pipeline performs one load, retrain, analyze, narrate, notify pass
type Pipeline struct {
	engine   *core.RiskEngine
	source   ports.RecordSource
	narrator core.Narrator
	notifier core.Notifier
	retrain  bool
	logger   *zap.Logger
}

// NewPipeline creates a new pipeline. narrator and notifier may be nil
func NewPipeline(
	engine *core.RiskEngine,
	source ports.RecordSource,
	narrator core.Narrator,
	notifier core.Notifier,
	retrain bool,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		engine:   engine,
		source:   source,
		narrator: narrator,
		notifier: notifier,
		retrain:  retrain,
		logger:   logger,
	}
}

// Run executes one pass. Only a failure to load records is returned as an
// error; training, narration and delivery failures are logged and recorded
func (p *Pipeline) Run(ctx context.Context) (*PassResult, error) {
	records, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	result := &PassResult{}

	if p.retrain || p.engine.Bundle() == nil {
		summary, err := p.engine.Train(ctx, records)
		if err != nil {
			result.TrainErr = err
			if core.IsTrainingError(err) {
				p.logger.Warn("Model not retrained, keeping previous bundle", zap.Error(err))
			} else {
				p.logger.Error("Training failed", zap.Error(err))
			}
		}
		result.Training = summary
	}

	report := p.engine.AnalyzePortfolio(ctx, records)
	result.Report = report

	if p.narrator != nil && report.TotalPending > 0 {
		narrative, err := p.narrator.Narrate(ctx, report)
		if err != nil {
			p.logger.Warn("Failed to generate narrative", zap.String("report_id", report.ID), zap.Error(err))
		} else {
			report.Narrative = narrative
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, report); err != nil {
			p.logger.Error("Failed to deliver report", zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	return result, nil
}

// RunOnce executes one pass and returns its report
func (p *Pipeline) RunOnce(ctx context.Context) (*core.AnalysisReport, error) {
	result, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}
