package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/core"
	"github.com/spamrun/email-checker/internal/di"
	"github.com/spamrun/email-checker/internal/ratelimit"
	"github.com/spamrun/email-checker/internal/server"
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
	srv *server.Server,
	llm core.LLMAnalyzer,
	limiter *ratelimit.Limiter,
	stopHistory di.HistoryStopFunc,
) error {
	defer logger.Sync()

	srv.Start()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := llm.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if limiter != nil {
		if err := limiter.Close(); err != nil {
			logger.Error("Failed to close rate limiter", zap.Error(err))
		}
	}
	stopHistory()

	logger.Info("Shutdown complete")
	return nil
}
