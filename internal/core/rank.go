package core

import (
	"sort"
	"time"
)

// RankingConfig fixes the observation window and thresholds for the
// low-presence ranking. The zero value is not usable; construct it from
// configuration.
type RankingConfig struct {
	// Year and StartMonth anchor the window; Months is its length in
	// calendar months.
	Year       int
	StartMonth time.Month
	Months     int

	// WorkingDays is the denominator used to turn a window total into a
	// mean per working day.
	WorkingDays int

	// MaxZeroMonths excludes users whose window has at least this many
	// months without any recorded presence.
	MaxZeroMonths int
}

// MeanWorkTime ranks users by their mean daily presence over the configured
// window, least present first. Users with too many empty months are dropped
// as having insufficient history. The sort is stable, with users visited in
// ascending user-ID order, so equal means keep a deterministic order.
func MeanWorkTime(index PresenceIndex, cfg RankingConfig) []MeanWorkRecord {
	userIDs := make([]int, 0, len(index))
	for id := range index {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	records := make([]MeanWorkRecord, 0, len(userIDs))
	for _, id := range userIDs {
		monthly := make([]int, cfg.Months)
		for date, punch := range index[id] {
			if date.Year != cfg.Year {
				continue
			}
			slot := int(date.Month - cfg.StartMonth)
			if slot < 0 || slot >= cfg.Months {
				continue
			}
			monthly[slot] += Interval(punch.Start, punch.End)
		}

		total, zeroMonths := 0, 0
		for _, seconds := range monthly {
			total += seconds
			if seconds == 0 {
				zeroMonths++
			}
		}
		if zeroMonths >= cfg.MaxZeroMonths {
			continue
		}

		records = append(records, MeanWorkRecord{
			UserID:      id,
			MeanSeconds: float64(total) / float64(cfg.WorkingDays),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MeanSeconds < records[j].MeanSeconds
	})
	return records
}
