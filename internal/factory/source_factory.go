package factory

import (
	"fmt"

	"github.com/mikey/presence-analyzer/internal/adapters/source"
	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// SourceFactory creates the presence and directory sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePresenceSource creates the punch-file loader, wrapped with TTL
// memoization when caching is enabled.
func (f *SourceFactory) CreatePresenceSource() (core.PresenceSource, error) {
	dataCfg := f.cfg.GetData()
	loader := source.NewCSVPresence(dataCfg.PresenceCSV, f.logger)

	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}
	if !cacheCfg.Enabled {
		return loader, nil
	}
	return source.NewCachedPresence(loader, loader.Path(), cacheCfg.TTL, nil), nil
}

// CreateDirectorySource creates the directory-document loader.
func (f *SourceFactory) CreateDirectorySource() core.DirectorySource {
	dataCfg := f.cfg.GetData()
	return source.NewXMLDirectory(dataCfg.DirectoryXML, f.logger)
}
