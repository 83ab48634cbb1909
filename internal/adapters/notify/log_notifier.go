package notify

import (
	"context"

	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// LogNotifier logs notifications instead of delivering them. Used for dry
// runs and local development.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification at Info level.
func (n *LogNotifier) Send(ctx context.Context, notification *core.Notification) error {
	n.logger.Info("Dry-run notification",
		zap.String("recipient", notification.Recipient),
		zap.String("subject", notification.Subject),
		zap.String("body", notification.Body))
	return nil
}
