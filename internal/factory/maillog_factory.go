package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/presence-analyzer/internal/adapters/maillog"
	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// MailLogFactory creates mail-log stores based on configuration
type MailLogFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailLogFactory creates a new mail-log factory
func NewMailLogFactory(cfg *config.Config, logger *zap.Logger) *MailLogFactory {
	return &MailLogFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailLog creates a mail-log store based on the configuration
func (f *MailLogFactory) CreateMailLog() (core.MailLog, error) {
	mlCfg := f.cfg.GetMailLog()

	switch mlCfg.Type {
	case "memory":
		return maillog.NewMemoryMailLog(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(mlCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return maillog.NewSQLiteMailLog(mlCfg.SQLitePath, f.logger)
	case "mysql":
		return maillog.NewMySQLMailLog(mlCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported mail log type: %s", mlCfg.Type)
	}
}
