package core

import "sort"

// weekdayAbbr labels the seven buckets, Monday first.
var weekdayAbbr = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayAbbr returns the label for a weekday index (Monday = 0).
func WeekdayAbbr(weekday int) string {
	return weekdayAbbr[weekday]
}

// GroupByWeekday distributes a user's punch intervals into seven weekday
// buckets (Monday = 0). Order within a bucket is unspecified.
func GroupByWeekday(days map[Date]Punch) [7][]int {
	var buckets [7][]int
	for date, punch := range days {
		wd := date.Weekday()
		buckets[wd] = append(buckets[wd], Interval(punch.Start, punch.End))
	}
	return buckets
}

// GroupStartEndByWeekday computes the mean start and end of day per weekday,
// in seconds since midnight, truncated to whole seconds. Weekdays with no
// punches yield [0, 0].
func GroupStartEndByWeekday(days map[Date]Punch) [7][2]int {
	var starts, ends [7][]int
	for date, punch := range days {
		wd := date.Weekday()
		starts[wd] = append(starts[wd], SecondsSinceMidnight(punch.Start))
		ends[wd] = append(ends[wd], SecondsSinceMidnight(punch.End))
	}
	var result [7][2]int
	for wd := range result {
		result[wd] = [2]int{int(Mean(starts[wd])), int(Mean(ends[wd]))}
	}
	return result
}

// DayMinutes is the presence time of one calendar day.
type DayMinutes struct {
	Date    string
	Minutes int
}

// TimeSpentByDay lists a user's daily presence time in minutes, truncated
// toward zero, ordered by date.
func TimeSpentByDay(days map[Date]Punch) []DayMinutes {
	dates := make([]Date, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	result := make([]DayMinutes, 0, len(dates))
	for _, date := range dates {
		punch := days[date]
		result = append(result, DayMinutes{
			Date:    date.String(),
			Minutes: Interval(punch.Start, punch.End) / 60,
		})
	}
	return result
}
