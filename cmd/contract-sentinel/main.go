package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/di"
	"github.com/mikey/contract-sentinel/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	runner ports.Runner,
	narrator core.Narrator,
	cache core.PredictionCache,
) error {
	defer logger.Sync()

	// Start the runner
	if err := runner.Start(); err != nil {
		logger.Error("Failed to start runner", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the runner
	if err := runner.Stop(); err != nil {
		logger.Error("Failed to stop runner", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := narrator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
