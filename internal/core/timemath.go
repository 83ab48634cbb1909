package core

// SecondsSinceMidnight converts a time of day to seconds elapsed since
// midnight.
func SecondsSinceMidnight(t ClockTime) int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Interval returns the signed length of the punch in seconds. An end before
// the start yields a negative value; nothing is clamped, callers see the raw
// data as recorded.
func Interval(start, end ClockTime) int {
	return SecondsSinceMidnight(end) - SecondsSinceMidnight(start)
}

// Mean returns the arithmetic mean of values. An empty slice yields 0, never
// NaN; aggregation callers rely on this and do not special-case missing data.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
