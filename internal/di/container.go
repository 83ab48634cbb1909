package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/presence-analyzer/internal/adapters/httpapi"
	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/mikey/presence-analyzer/internal/exclusions"
	"github.com/mikey/presence-analyzer/internal/factory"
	"github.com/mikey/presence-analyzer/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailLogFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}

	// Register data sources
	if err := container.Provide(func(f *factory.SourceFactory) (core.PresenceSource, error) {
		return f.CreatePresenceSource()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SourceFactory) core.DirectorySource {
		return f.CreateDirectorySource()
	}); err != nil {
		return nil, err
	}

	// Register mail log store
	if err := container.Provide(func(f *factory.MailLogFactory) (core.MailLog, error) {
		return f.CreateMailLog()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register ranking and reminder settings
	if err := container.Provide(func(cfg *config.Config) core.RankingConfig {
		rankCfg := cfg.GetRanking()
		return core.RankingConfig{
			Year:          rankCfg.Year,
			StartMonth:    rankCfg.StartMonth,
			Months:        rankCfg.Months,
			WorkingDays:   rankCfg.WorkingDays,
			MaxZeroMonths: rankCfg.MaxZeroMonths,
		}
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config) (core.ReminderConfig, error) {
		remCfg, err := cfg.GetReminder()
		if err != nil {
			return core.ReminderConfig{}, err
		}
		return core.ReminderConfig{
			CooldownDays: remCfg.CooldownDays,
			TopN:         remCfg.TopN,
			Subject:      remCfg.Subject,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register reminder exclusions
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *exclusions.Checker {
		return exclusions.NewChecker(cfg.GetExcludedUsers(), logger)
	}); err != nil {
		return nil, err
	}

	// Register services
	if err := container.Provide(core.NewStatsService); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		presence core.PresenceSource,
		directory core.DirectorySource,
		mailLog core.MailLog,
		notifier core.Notifier,
		excluded *exclusions.Checker,
		logger *zap.Logger,
		rankCfg core.RankingConfig,
		remCfg core.ReminderConfig,
	) *core.ReminderService {
		return core.NewReminderService(presence, directory, mailLog, notifier, excluded, logger, rankCfg, remCfg, nil)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(
		cfg *config.Config,
		stats *core.StatsService,
		reminders *core.ReminderService,
		logger *zap.Logger,
	) *httpapi.Server {
		return httpapi.NewServer(cfg.GetServer().ListenAddress, stats, reminders, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
