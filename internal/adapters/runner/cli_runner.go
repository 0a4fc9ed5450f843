package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// CLIRunner runs one pass and prints the report
type CLIRunner struct {
	pipeline   *Pipeline
	out        io.Writer
	jsonOutput bool
	verbose    bool
	logger     *zap.Logger
}

// NewCLIRunner creates a new CLI runner
func NewCLIRunner(pipeline *Pipeline, out io.Writer, jsonOutput bool, verbose bool, logger *zap.Logger) *CLIRunner {
	return &CLIRunner{
		pipeline:   pipeline,
		out:        out,
		jsonOutput: jsonOutput,
		verbose:    verbose,
		logger:     logger,
	}
}

// RunOnce runs the pipeline and prints its results
func (r *CLIRunner) RunOnce(ctx context.Context) (*core.AnalysisReport, error) {
	startTime := time.Now()
	result, err := r.pipeline.Run(ctx)
	if err != nil {
		r.logger.Error("Failed to analyze records", zap.Error(err))
		return nil, err
	}
	duration := time.Since(startTime)

	if r.jsonOutput {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Report); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return result.Report, nil
	}

	fmt.Fprintf(r.out, "=== Training ===\n")
	switch {
	case result.Training != nil:
		fmt.Fprintf(r.out, "%s\n", result.Training)
	case result.TrainErr != nil:
		fmt.Fprintf(r.out, "Model not trained: %v\n", result.TrainErr)
	default:
		fmt.Fprintf(r.out, "Using existing model\n")
	}
	fmt.Fprintf(r.out, "\n")

	utils.WriteReport(r.out, result.Report, r.verbose)
	fmt.Fprintf(r.out, "\nProcessing time: %v\n", duration)

	return result.Report, nil
}

// Start runs a single pass
func (r *CLIRunner) Start() error {
	_, err := r.RunOnce(context.Background())
	return err
}

// Stop is a no-op for the CLI runner
func (r *CLIRunner) Stop() error {
	return nil
}
