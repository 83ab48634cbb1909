package factory

import (
	"fmt"

	"github.com/mikey/presence-analyzer/internal/adapters/notify"
	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	switch notifierType := f.cfg.GetString("notifier.type"); notifierType {
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return notify.NewSMTPNotifier(
			smtpCfg.Address,
			smtpCfg.From,
			smtpCfg.Username,
			smtpCfg.Password,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifierType)
	}
}
