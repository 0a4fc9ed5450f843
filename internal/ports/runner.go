package ports

import (
	"context"

	"github.com/mikey/contract-sentinel/internal/core"
)

// Runner defines the interface for driving analysis passes
type Runner interface {
	// RunOnce loads records, optionally retrains, analyzes and delivers the report
	RunOnce(ctx context.Context) (*core.AnalysisReport, error)

	// Start starts the runner
	Start() error

	// Stop stops the runner
	Stop() error
}
