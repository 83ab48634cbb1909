package core

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// StatsService answers per-user presence queries. It reads through the
// injected sources on every call; wrap the presence source with the TTL
// memoizer to avoid re-parsing on each request.
type StatsService struct {
	presence  PresenceSource
	directory DirectorySource
	logger    *zap.Logger
}

// NewStatsService creates a stats service over the given sources.
func NewStatsService(presence PresenceSource, directory DirectorySource, logger *zap.Logger) *StatsService {
	return &StatsService{
		presence:  presence,
		directory: directory,
		logger:    logger,
	}
}

// userDays returns the punch map for one user, or ErrUserNotFound.
func (s *StatsService) userDays(ctx context.Context, userID int) (map[Date]Punch, error) {
	index, err := s.presence.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load presence data: %w", err)
	}
	days, ok := index[userID]
	if !ok {
		s.logger.Debug("User not found in presence data", zap.Int("user_id", userID))
		return nil, ErrUserNotFound
	}
	return days, nil
}

// WeekdayValue is an aggregated value for one weekday.
type WeekdayValue struct {
	Weekday string
	Value   float64
}

// WeekdayStartEnd is the mean start and end of day for one weekday, in
// seconds since midnight.
type WeekdayStartEnd struct {
	Weekday string
	Start   int
	End     int
}

// MeanTimeWeekday returns the user's mean presence time per weekday, in
// seconds. Weekdays without data report 0.
func (s *StatsService) MeanTimeWeekday(ctx context.Context, userID int) ([]WeekdayValue, error) {
	days, err := s.userDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	buckets := GroupByWeekday(days)
	result := make([]WeekdayValue, 0, len(buckets))
	for wd, intervals := range buckets {
		result = append(result, WeekdayValue{Weekday: WeekdayAbbr(wd), Value: Mean(intervals)})
	}
	return result, nil
}

// PresenceWeekday returns the user's total presence time per weekday, in
// seconds.
func (s *StatsService) PresenceWeekday(ctx context.Context, userID int) ([]WeekdayValue, error) {
	days, err := s.userDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	buckets := GroupByWeekday(days)
	result := make([]WeekdayValue, 0, len(buckets))
	for wd, intervals := range buckets {
		sum := 0
		for _, v := range intervals {
			sum += v
		}
		result = append(result, WeekdayValue{Weekday: WeekdayAbbr(wd), Value: float64(sum)})
	}
	return result, nil
}

// PresenceStartEnd returns the user's mean start and end of day per weekday.
// Weekdays without any positive start and end are omitted.
func (s *StatsService) PresenceStartEnd(ctx context.Context, userID int) ([]WeekdayStartEnd, error) {
	days, err := s.userDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	buckets := GroupStartEndByWeekday(days)
	result := make([]WeekdayStartEnd, 0, len(buckets))
	for wd, pair := range buckets {
		if pair[0] <= 0 || pair[1] <= 0 {
			continue
		}
		result = append(result, WeekdayStartEnd{Weekday: WeekdayAbbr(wd), Start: pair[0], End: pair[1]})
	}
	return result, nil
}

// PresenceDays returns the user's presence time per calendar day, in minutes.
func (s *StatsService) PresenceDays(ctx context.Context, userID int) ([]DayMinutes, error) {
	days, err := s.userDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	return TimeSpentByDay(days), nil
}

// Users lists the directory entries in ascending user-ID order.
func (s *StatsService) Users(ctx context.Context) ([]DirectoryEntry, error) {
	directory, err := s.directory.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}
	entries := make([]DirectoryEntry, 0, len(directory))
	for _, entry := range directory {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries, nil
}
