package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week)
func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty schedule")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return sched, nil
}

// CronRunner runs the pipeline on a cron schedule
type CronRunner struct {
	pipeline   *Pipeline
	schedule   cron.Schedule
	expr       string
	runOnStart bool
	logger     *zap.Logger

	mu       sync.Mutex
	started  bool
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCronRunner creates a new cron runner
func NewCronRunner(pipeline *Pipeline, expr string, runOnStart bool, logger *zap.Logger) (*CronRunner, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return &CronRunner{
		pipeline:   pipeline,
		schedule:   sched,
		expr:       expr,
		runOnStart: runOnStart,
		logger:     logger,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// RunOnce runs a single pass immediately
func (r *CronRunner) RunOnce(ctx context.Context) (*core.AnalysisReport, error) {
	return r.pipeline.RunOnce(ctx)
}

// Start starts the schedule loop in the background
func (r *CronRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("runner already started")
	}
	r.started = true

	r.logger.Info("Analysis scheduled", zap.String("cron", r.expr))
	go r.loop()
	return nil
}

// Stop ends the schedule loop and waits for an in-flight pass to finish
func (r *CronRunner) Stop() error {
	r.stopOnce.Do(func() { close(r.stopCh) })

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		<-r.done
	}
	return nil
}

func (r *CronRunner) loop() {
	defer close(r.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-r.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if r.runOnStart {
		r.pass(ctx)
	}

	for {
		now := time.Now()
		next := r.schedule.Next(now)
		wait := next.Sub(now)
		r.logger.Info("Next analysis pass",
			zap.Time("at", next),
			zap.Duration("in", wait.Round(time.Second)))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			r.pass(ctx)
		case <-r.stopCh:
			timer.Stop()
			return
		}
	}
}

func (r *CronRunner) pass(ctx context.Context) {
	start := time.Now()
	report, err := r.pipeline.RunOnce(ctx)
	if err != nil {
		r.logger.Error("Analysis pass failed", zap.Error(err))
		return
	}
	r.logger.Info("Analysis pass complete",
		zap.String("report_id", report.ID),
		zap.Int("pending", report.TotalPending),
		zap.Int("critical", len(report.CriticalPending)),
		zap.Duration("duration", time.Since(start)))
}
