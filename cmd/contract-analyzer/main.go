package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/di"
	"github.com/mikey/contract-sentinel/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	logger *zap.Logger,
	runner ports.Runner,
	narrator core.Narrator,
	cache core.PredictionCache,
) error {
	defer logger.Sync()

	defer func() {
		if closer, ok := narrator.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}
		if stopper, ok := cache.(interface{ Stop() }); ok {
			stopper.Stop()
		}
	}()

	_, err := runner.RunOnce(context.Background())
	return err
}
