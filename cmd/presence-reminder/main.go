package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mikey/presence-analyzer/internal/config"
	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/mikey/presence-analyzer/internal/exclusions"
	"github.com/mikey/presence-analyzer/internal/factory"
	"github.com/mikey/presence-analyzer/internal/logging"
	"go.uber.org/zap"
)

var (
	// Data source flags
	presenceCSV  = flag.String("presence-csv", "", "Path to the punch CSV file")
	directoryXML = flag.String("directory-xml", "", "Path to the user directory XML file")

	// Ranking flags
	year        = flag.Int("year", 0, "Calendar year of the ranking window")
	topN        = flag.Int("top-n", 0, "How many ranked users to consider")
	workingDays = flag.Int("working-days", 0, "Working-day denominator for the mean")

	// Reminder flags
	cooldownDays = flag.Int("cooldown-days", 0, "Days before a notified user becomes eligible again")
	exclude      = flag.String("exclude", "", "Comma-separated user IDs that never receive reminders")
	dryRun       = flag.Bool("dry-run", false, "Log notifications instead of sending them")

	// Mail log flags
	mailLogType = flag.String("maillog", "", "Mail log store (memory, sqlite, mysql)")
	sqlitePath  = flag.String("sqlite-path", "", "Path to the SQLite mail log")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")

	useConfigFile = flag.Bool("config", false, "Load configuration from the config file search path")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := buildConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	sourceFactory := factory.NewSourceFactory(cfg, logger)
	presence, err := sourceFactory.CreatePresenceSource()
	if err != nil {
		logger.Fatal("Failed to create presence source", zap.Error(err))
	}
	directory := sourceFactory.CreateDirectorySource()

	mailLog, err := factory.NewMailLogFactory(cfg, logger).CreateMailLog()
	if err != nil {
		logger.Fatal("Failed to create mail log", zap.Error(err))
	}
	defer func() {
		if closer, ok := mailLog.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close mail log", zap.Error(err))
			}
		}
	}()

	notifier, err := factory.NewNotifierFactory(cfg, logger).CreateNotifier()
	if err != nil {
		logger.Fatal("Failed to create notifier", zap.Error(err))
	}

	rankCfg := cfg.GetRanking()
	remCfg, err := cfg.GetReminder()
	if err != nil {
		logger.Fatal("Invalid reminder configuration", zap.Error(err))
	}

	reminders := core.NewReminderService(
		presence,
		directory,
		mailLog,
		notifier,
		exclusions.NewChecker(cfg.GetExcludedUsers(), logger),
		logger,
		core.RankingConfig{
			Year:          rankCfg.Year,
			StartMonth:    rankCfg.StartMonth,
			Months:        rankCfg.Months,
			WorkingDays:   rankCfg.WorkingDays,
			MaxZeroMonths: rankCfg.MaxZeroMonths,
		},
		core.ReminderConfig{
			CooldownDays: remCfg.CooldownDays,
			TopN:         remCfg.TopN,
			Subject:      remCfg.Subject,
		},
		nil,
	)

	if err := reminders.Run(context.Background()); err != nil {
		logger.Fatal("Reminder pass failed", zap.Error(err))
	}
	logger.Info("Reminder pass complete")
}

// buildConfig merges the config file (when requested) with flag overrides.
func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	if *useConfigFile {
		loaded, err := config.New()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.NewFromViper(config.NewEmptyViper())
	}

	v := cfg.GetViper()
	if *presenceCSV != "" {
		v.Set("data.presence_csv", *presenceCSV)
	}
	if *directoryXML != "" {
		v.Set("data.directory_xml", *directoryXML)
	}
	if *year != 0 {
		v.Set("ranking.year", *year)
	}
	if *workingDays != 0 {
		v.Set("ranking.working_days", *workingDays)
	}
	if *topN != 0 {
		v.Set("reminder.top_n", *topN)
	}
	if *cooldownDays != 0 {
		v.Set("reminder.cooldown_days", *cooldownDays)
	}
	if *exclude != "" {
		ids, err := parseUserIDs(*exclude)
		if err != nil {
			return nil, fmt.Errorf("invalid -exclude value: %w", err)
		}
		v.Set("reminder.excluded_users", ids)
	}
	if *mailLogType != "" {
		v.Set("maillog.type", *mailLogType)
	}
	if *sqlitePath != "" {
		v.Set("maillog.sqlite_path", *sqlitePath)
	}
	if *dryRun {
		v.Set("notifier.type", "log")
	}
	return cfg, nil
}

func parseUserIDs(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
