package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/presence-analyzer/internal/exclusions"
	"go.uber.org/zap"
)

// ReminderConfig controls reminder selection and delivery.
type ReminderConfig struct {
	// CooldownDays is the minimum number of days between two reminders to
	// the same user.
	CooldownDays int

	// TopN caps how many ranked users are considered per pass.
	TopN int

	// Subject is used verbatim on every notification.
	Subject string
}

// ReminderService drives the low-presence reminder workflow: rank users,
// filter them through the persistent mail log and hand the survivors to the
// notifier. One mail-log record exists per notified user until its cooldown
// elapses.
type ReminderService struct {
	presence   PresenceSource
	directory  DirectorySource
	mailLog    MailLog
	notifier   Notifier
	exclusions *exclusions.Checker
	logger     *zap.Logger
	rankCfg    RankingConfig
	cfg        ReminderConfig
	now        func() time.Time
}

// NewReminderService creates a reminder service. A nil excluded checker
// excludes nobody; a nil now falls back to time.Now, tests inject a fixed
// clock.
func NewReminderService(
	presence PresenceSource,
	directory DirectorySource,
	mailLog MailLog,
	notifier Notifier,
	excluded *exclusions.Checker,
	logger *zap.Logger,
	rankCfg RankingConfig,
	cfg ReminderConfig,
	now func() time.Time,
) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		presence:   presence,
		directory:  directory,
		mailLog:    mailLog,
		notifier:   notifier,
		exclusions: excluded,
		logger:     logger,
		rankCfg:    rankCfg,
		cfg:        cfg,
		now:        now,
	}
}

// SelectAndRecord picks the ranked users that are currently eligible for a
// reminder and records today as their notification date. Users already
// cooling down, and users missing from the directory, are skipped. The
// mail-log insert is conditional, so repeated calls on the same day are
// idempotent.
func (s *ReminderService) SelectAndRecord(
	ctx context.Context,
	ranked []MeanWorkRecord,
	directory map[int]DirectoryEntry,
) (map[int]Reminder, error) {
	today := DateOf(s.now())

	// Records whose cooldown has fully elapsed are dropped first so those
	// users become eligible again.
	cutoff := today.AddDays(-s.cfg.CooldownDays)
	if err := s.mailLog.Purge(ctx, cutoff); err != nil {
		return nil, fmt.Errorf("failed to purge expired mail records: %w", err)
	}

	selected := make(map[int]Reminder)
	for _, rec := range ranked {
		entry, ok := directory[rec.UserID]
		if !ok {
			s.logger.Warn("Ranked user missing from directory",
				zap.Int("user_id", rec.UserID))
			continue
		}

		inserted, err := s.mailLog.Insert(ctx, MailRecord{
			UserID:       rec.UserID,
			MeanSeconds:  rec.MeanSeconds,
			LastNotified: today,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record reminder for user %d: %w", rec.UserID, err)
		}
		if !inserted {
			s.logger.Debug("User still cooling down",
				zap.Int("user_id", rec.UserID))
			continue
		}

		selected[rec.UserID] = Reminder{MeanSeconds: rec.MeanSeconds, Email: entry.Email}
	}
	return selected, nil
}

// DaysToNextMail reports, per recorded user, how many days remain until they
// are eligible for another reminder. Records whose cooldown has elapsed are
// deleted on the way through rather than reported with zero days.
func (s *ReminderService) DaysToNextMail(ctx context.Context) (map[int]int, error) {
	records, err := s.mailLog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mail records: %w", err)
	}

	today := DateOf(s.now())
	result := make(map[int]int, len(records))
	for _, rec := range records {
		remaining := DaysBetween(today, rec.LastNotified.AddDays(s.cfg.CooldownDays))
		if remaining <= 0 {
			if err := s.mailLog.Delete(ctx, rec.UserID); err != nil {
				return nil, fmt.Errorf("failed to delete expired mail record for user %d: %w", rec.UserID, err)
			}
			continue
		}
		result[rec.UserID] = remaining
	}
	return result, nil
}

// Run executes one full reminder pass: load, rank, dedup, notify. Delivery
// failures are logged per user and reported as a single joined error after
// the whole pass, so one dead mailbox never blocks the rest.
func (s *ReminderService) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	index, err := s.presence.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load presence data: %w", err)
	}
	directory, err := s.directory.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user directory: %w", err)
	}

	ranked := MeanWorkTime(index, s.rankCfg)
	ranked = s.filterExcluded(ranked)
	if len(ranked) > s.cfg.TopN {
		ranked = ranked[:s.cfg.TopN]
	}
	logger.Info("Ranked low-presence users",
		zap.Int("candidates", len(ranked)),
		zap.Int("top_n", s.cfg.TopN))

	selected, err := s.SelectAndRecord(ctx, ranked, directory)
	if err != nil {
		return err
	}

	var sendErrs []error
	for userID, reminder := range selected {
		n := &Notification{
			Recipient: reminder.Email,
			Subject:   s.cfg.Subject,
			Body:      reminderBody(reminder.MeanSeconds),
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			logger.Error("Failed to send reminder",
				zap.Int("user_id", userID),
				zap.String("recipient", reminder.Email),
				zap.Error(err))
			sendErrs = append(sendErrs, fmt.Errorf("user %d: %w", userID, err))
			continue
		}
		logger.Info("Sent presence reminder",
			zap.Int("user_id", userID),
			zap.String("recipient", reminder.Email),
			zap.Float64("mean_seconds", reminder.MeanSeconds))
	}
	return errors.Join(sendErrs...)
}

// filterExcluded drops excluded users from the ranking before the top-N cut,
// so exclusions never shrink the candidate pool.
func (s *ReminderService) filterExcluded(ranked []MeanWorkRecord) []MeanWorkRecord {
	if s.exclusions == nil {
		return ranked
	}
	kept := ranked[:0]
	for _, rec := range ranked {
		if s.exclusions.IsExcluded(rec.UserID) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// reminderBody renders the notification text with a human-readable mean
// presence time.
func reminderBody(meanSeconds float64) string {
	return fmt.Sprintf(
		"Hi,\n\nYour mean presence time in the office is currently %s per working day, "+
			"which puts you among the least present users. Please remember to clock in "+
			"and out every day.\n\nThe Presence Analyzer",
		FormatSeconds(meanSeconds),
	)
}

// FormatSeconds renders a duration in seconds as hours and minutes, e.g.
// "6h 48m". Sub-minute amounts render as "0m".
func FormatSeconds(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
