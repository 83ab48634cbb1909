package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/presence-analyzer/internal/adapters/maillog"
	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/mikey/presence-analyzer/internal/exclusions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPresence struct {
	index core.PresenceIndex
}

func (s *stubPresence) Load(ctx context.Context) (core.PresenceIndex, error) {
	return s.index, nil
}

type stubDirectory struct {
	entries map[int]core.DirectoryEntry
}

func (s *stubDirectory) Load(ctx context.Context) (map[int]core.DirectoryEntry, error) {
	return s.entries, nil
}

type captureNotifier struct {
	sent []*core.Notification
}

func (n *captureNotifier) Send(ctx context.Context, notification *core.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

// testClock is a settable time source.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func reminderFixture(t *testing.T, clock *testClock) (*core.ReminderService, *maillog.MemoryMailLog, *captureNotifier) {
	return reminderFixtureExcluding(t, clock, nil)
}

func reminderFixtureExcluding(t *testing.T, clock *testClock, excluded *exclusions.Checker) (*core.ReminderService, *maillog.MemoryMailLog, *captureNotifier) {
	t.Helper()

	index := core.PresenceIndex{}
	for _, id := range []int{1, 2} {
		days := make(map[core.Date]core.Punch)
		// Six active months out of nine; user 1 works half as long as user 2.
		for month := time.January; month <= time.June; month++ {
			end := core.ClockTime{Hour: 9 + 2*id}
			days[core.NewDate(2013, month, 10)] = core.Punch{Start: core.ClockTime{Hour: 9}, End: end}
		}
		index[id] = days
	}

	directory := map[int]core.DirectoryEntry{
		1: {UserID: 1, Name: "Adam P.", Email: "adam.p@example.com"},
		2: {UserID: 2, Name: "Eva K.", Email: "eva.k@example.com"},
	}

	store := maillog.NewMemoryMailLog(zap.NewNop())
	notifier := &captureNotifier{}
	service := core.NewReminderService(
		&stubPresence{index: index},
		&stubDirectory{entries: directory},
		store,
		notifier,
		excluded,
		zap.NewNop(),
		core.RankingConfig{
			Year:          2013,
			StartMonth:    time.January,
			Months:        9,
			WorkingDays:   189,
			MaxZeroMonths: 4,
		},
		core.ReminderConfig{
			CooldownDays: 120,
			TopN:         5,
			Subject:      "Your presence in the office",
		},
		clock.Now,
	)
	return service, store, notifier
}

func TestSelectAndRecord(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{current: time.Date(2013, time.October, 2, 12, 0, 0, 0, time.UTC)}
	today := core.DateOf(clock.Now())

	ranked := []core.MeanWorkRecord{
		{UserID: 1, MeanSeconds: 1000},
		{UserID: 2, MeanSeconds: 2000},
	}
	directory := map[int]core.DirectoryEntry{
		1: {UserID: 1, Email: "adam.p@example.com"},
		2: {UserID: 2, Email: "eva.k@example.com"},
	}

	t.Run("eligible users are selected once and recorded", func(t *testing.T) {
		service, store, _ := reminderFixture(t, clock)

		selected, err := service.SelectAndRecord(ctx, ranked, directory)
		require.NoError(t, err)
		assert.Equal(t, map[int]core.Reminder{
			1: {MeanSeconds: 1000, Email: "adam.p@example.com"},
			2: {MeanSeconds: 2000, Email: "eva.k@example.com"},
		}, selected)

		rec, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, today, rec.LastNotified)
	})

	t.Run("second call the same day selects nobody", func(t *testing.T) {
		service, store, _ := reminderFixture(t, clock)

		_, err := service.SelectAndRecord(ctx, ranked, directory)
		require.NoError(t, err)
		selected, err := service.SelectAndRecord(ctx, ranked, directory)
		require.NoError(t, err)
		assert.Empty(t, selected)

		records, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("users missing from the directory are skipped", func(t *testing.T) {
		service, store, _ := reminderFixture(t, clock)

		selected, err := service.SelectAndRecord(ctx, ranked, map[int]core.DirectoryEntry{
			2: {UserID: 2, Email: "eva.k@example.com"},
		})
		require.NoError(t, err)
		assert.Len(t, selected, 1)
		assert.Contains(t, selected, 2)

		_, err = store.Get(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNoMailRecord)
	})

	t.Run("users become eligible again after the cooldown", func(t *testing.T) {
		localClock := &testClock{current: clock.Now()}
		service, _, _ := reminderFixture(t, localClock)

		first, err := service.SelectAndRecord(ctx, ranked, directory)
		require.NoError(t, err)
		require.Len(t, first, 2)

		localClock.Advance(121 * 24 * time.Hour)
		again, err := service.SelectAndRecord(ctx, ranked, directory)
		require.NoError(t, err)
		assert.Len(t, again, 2)
	})
}

func TestDaysToNextMail(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{current: time.Date(2013, time.October, 2, 12, 0, 0, 0, time.UTC)}
	service, store, _ := reminderFixture(t, clock)

	_, err := service.SelectAndRecord(ctx, []core.MeanWorkRecord{{UserID: 1, MeanSeconds: 1000}},
		map[int]core.DirectoryEntry{1: {UserID: 1, Email: "adam.p@example.com"}})
	require.NoError(t, err)

	t.Run("full cooldown right after notification", func(t *testing.T) {
		days, err := service.DaysToNextMail(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{1: 120}, days)
	})

	t.Run("counts down as days pass", func(t *testing.T) {
		clock.Advance(30 * 24 * time.Hour)
		days, err := service.DaysToNextMail(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{1: 90}, days)
	})

	t.Run("expired records are deleted lazily", func(t *testing.T) {
		clock.Advance(90 * 24 * time.Hour)
		days, err := service.DaysToNextMail(ctx)
		require.NoError(t, err)
		assert.Empty(t, days)

		_, err = store.Get(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNoMailRecord)
	})
}

func TestReminderRun(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{current: time.Date(2013, time.October, 2, 12, 0, 0, 0, time.UTC)}
	service, store, notifier := reminderFixture(t, clock)

	require.NoError(t, service.Run(ctx))

	t.Run("notifies every selected user", func(t *testing.T) {
		require.Len(t, notifier.sent, 2)
		recipients := []string{notifier.sent[0].Recipient, notifier.sent[1].Recipient}
		assert.ElementsMatch(t, []string{"adam.p@example.com", "eva.k@example.com"}, recipients)
		for _, n := range notifier.sent {
			assert.Equal(t, "Your presence in the office", n.Subject)
			assert.Contains(t, n.Body, "per working day")
		}
	})

	t.Run("records both users in the mail log", func(t *testing.T) {
		records, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("a second run the same day sends nothing new", func(t *testing.T) {
		require.NoError(t, service.Run(ctx))
		assert.Len(t, notifier.sent, 2)
	})
}

func TestReminderRunSkipsExcludedUsers(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{current: time.Date(2013, time.October, 2, 12, 0, 0, 0, time.UTC)}
	checker := exclusions.NewChecker([]int{1}, zap.NewNop())
	service, store, notifier := reminderFixtureExcluding(t, clock, checker)

	require.NoError(t, service.Run(ctx))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "eva.k@example.com", notifier.sent[0].Recipient)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, core.ErrNoMailRecord)
}
