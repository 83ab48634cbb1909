package core

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Date is a calendar day with no time zone attached. All presence data is
// naive local wall-clock time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of the given instant.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight UTC. UTC keeps day arithmetic immune to
// DST transitions.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Weekday returns the day of week with Monday as 0 and Sunday as 6.
func (d Date) Weekday() int {
	return (int(d.Time().Weekday()) + 6) % 7
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// DaysBetween returns the number of whole days from a to b. The result is
// negative when b falls before a.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime parses a time of day in HH:MM:SS form.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// String formats the time of day as HH:MM:SS.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Punch is a single day's recorded start and end time for a user. Start need
// not precede End; see Interval.
type Punch struct {
	Start ClockTime
	End   ClockTime
}

// PresenceIndex maps user IDs to their punches keyed by date. A load produces
// a fresh index every time; indexes are never mutated after being returned.
type PresenceIndex map[int]map[Date]Punch

// DirectoryEntry describes a user from the directory document.
type DirectoryEntry struct {
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
	Email     string `json:"email"`
}

// MeanWorkRecord is one row of the low-presence ranking.
type MeanWorkRecord struct {
	UserID      int
	MeanSeconds float64
}

// MailRecord is the persisted dedup state for a notified user. One record
// exists per user at most; it is deleted once the cooldown has elapsed.
type MailRecord struct {
	UserID       int
	MeanSeconds  float64
	LastNotified Date
}

// Reminder is one selected low-presence user together with the address the
// notification should go to.
type Reminder struct {
	MeanSeconds float64
	Email       string
}

// Notification is the payload handed to a Notifier.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}
