package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/presence-analyzer/internal/adapters/httpapi"
	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/mikey/presence-analyzer/internal/di"
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
	cfg *config.Config,
	server *httpapi.Server,
	reminders *core.ReminderService,
	mailLog core.MailLog,
) error {
	defer logger.Sync()

	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start HTTP server", zap.Error(err))
		return err
	}

	remCfg, err := cfg.GetReminder()
	if err != nil {
		return fmt.Errorf("invalid reminder configuration: %w", err)
	}

	// Periodic reminder passes. The reminder service itself holds no
	// timers; the cadence lives here.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runReminderLoop(ctx, reminders, remCfg.Interval, logger)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	// Close the mail log if the store holds a connection
	if closer, ok := mailLog.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close mail log", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

// runReminderLoop runs one reminder pass per interval until ctx is done.
func runReminderLoop(ctx context.Context, reminders *core.ReminderService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := reminders.Run(ctx); err != nil {
				logger.Error("Reminder pass failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
