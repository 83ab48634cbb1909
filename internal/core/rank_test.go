package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingConfig() RankingConfig {
	return RankingConfig{
		Year:          2013,
		StartMonth:    time.January,
		Months:        9,
		WorkingDays:   189,
		MaxZeroMonths: 4,
	}
}

// monthlyPresence adds one punch of the given length on the 10th of each
// listed month.
func monthlyPresence(index PresenceIndex, userID int, seconds int, months ...time.Month) {
	days, ok := index[userID]
	if !ok {
		days = make(map[Date]Punch)
		index[userID] = days
	}
	for _, month := range months {
		end := ClockTime{
			Hour:   9 + seconds/3600,
			Minute: (seconds % 3600) / 60,
			Second: seconds % 60,
		}
		days[NewDate(2013, month, 10)] = Punch{Start: ClockTime{Hour: 9}, End: end}
	}
}

func TestMeanWorkTime(t *testing.T) {
	t.Run("mean uses the working day denominator", func(t *testing.T) {
		index := make(PresenceIndex)
		monthlyPresence(index, 10, 3600,
			time.January, time.February, time.March, time.April, time.May, time.June)

		records := MeanWorkTime(index, rankingConfig())
		require.Len(t, records, 1)
		assert.Equal(t, 10, records[0].UserID)
		assert.InDelta(t, float64(6*3600)/189.0, records[0].MeanSeconds, 1e-9)
	})

	t.Run("four zero months exclude a user regardless of totals", func(t *testing.T) {
		index := make(PresenceIndex)
		// Five active months means four empty slots in the nine-month window.
		monthlyPresence(index, 11, 10*3600,
			time.January, time.February, time.March, time.April, time.May)

		records := MeanWorkTime(index, rankingConfig())
		assert.Empty(t, records)
	})

	t.Run("dates outside the window are ignored", func(t *testing.T) {
		index := make(PresenceIndex)
		monthlyPresence(index, 12, 3600,
			time.January, time.February, time.March, time.April, time.May, time.June)
		// Outside the year and past the window end.
		index[12][NewDate(2012, time.March, 10)] = punch("09:00:00", "18:00:00")
		index[12][NewDate(2013, time.October, 10)] = punch("09:00:00", "18:00:00")

		records := MeanWorkTime(index, rankingConfig())
		require.Len(t, records, 1)
		assert.InDelta(t, float64(6*3600)/189.0, records[0].MeanSeconds, 1e-9)
	})

	t.Run("sorted ascending with least present first", func(t *testing.T) {
		index := make(PresenceIndex)
		monthlyPresence(index, 20, 8*3600,
			time.January, time.February, time.March, time.April, time.May, time.June)
		monthlyPresence(index, 21, 2*3600,
			time.January, time.February, time.March, time.April, time.May, time.June)
		monthlyPresence(index, 22, 5*3600,
			time.January, time.February, time.March, time.April, time.May, time.June)

		records := MeanWorkTime(index, rankingConfig())
		require.Len(t, records, 3)
		assert.Equal(t, 21, records[0].UserID)
		assert.Equal(t, 22, records[1].UserID)
		assert.Equal(t, 20, records[2].UserID)
	})

	t.Run("ties keep ascending user-id order", func(t *testing.T) {
		index := make(PresenceIndex)
		for _, id := range []int{31, 30, 33, 32} {
			monthlyPresence(index, id, 3600,
				time.January, time.February, time.March, time.April, time.May, time.June)
		}

		records := MeanWorkTime(index, rankingConfig())
		require.Len(t, records, 4)
		ids := []int{records[0].UserID, records[1].UserID, records[2].UserID, records[3].UserID}
		assert.Equal(t, []int{30, 31, 32, 33}, ids)
	})
}
