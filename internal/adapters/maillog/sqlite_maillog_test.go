package maillog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/presence-analyzer/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteStore(t *testing.T) *SQLiteMailLog {
	t.Helper()
	store, err := NewSQLiteMailLog(filepath.Join(t.TempDir(), "mail_log.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteMailLog(t *testing.T) {
	ctx := context.Background()
	notified := core.NewDate(2013, time.October, 2)

	t.Run("round trip", func(t *testing.T) {
		store := newSQLiteStore(t)

		inserted, err := store.Insert(ctx, core.MailRecord{UserID: 1, MeanSeconds: 12345.5, LastNotified: notified})
		require.NoError(t, err)
		assert.True(t, inserted)

		rec, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, &core.MailRecord{UserID: 1, MeanSeconds: 12345.5, LastNotified: notified}, rec)
	})

	t.Run("insert ignores duplicates", func(t *testing.T) {
		store := newSQLiteStore(t)

		_, err := store.Insert(ctx, core.MailRecord{UserID: 1, MeanSeconds: 100, LastNotified: notified})
		require.NoError(t, err)
		inserted, err := store.Insert(ctx, core.MailRecord{UserID: 1, MeanSeconds: 999, LastNotified: notified.AddDays(3)})
		require.NoError(t, err)
		assert.False(t, inserted)

		rec, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 100.0, rec.MeanSeconds)
	})

	t.Run("get reports missing records", func(t *testing.T) {
		store := newSQLiteStore(t)
		_, err := store.Get(ctx, 42)
		assert.ErrorIs(t, err, core.ErrNoMailRecord)
	})

	t.Run("all is ordered by user id", func(t *testing.T) {
		store := newSQLiteStore(t)
		for _, id := range []int{5, 3, 4} {
			_, err := store.Insert(ctx, core.MailRecord{UserID: id, LastNotified: notified})
			require.NoError(t, err)
		}

		records, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []int{3, 4, 5}, []int{records[0].UserID, records[1].UserID, records[2].UserID})
	})

	t.Run("purge uses date-text ordering", func(t *testing.T) {
		store := newSQLiteStore(t)
		_, err := store.Insert(ctx, core.MailRecord{UserID: 1, LastNotified: notified.AddDays(-120)})
		require.NoError(t, err)
		_, err = store.Insert(ctx, core.MailRecord{UserID: 2, LastNotified: notified})
		require.NoError(t, err)

		require.NoError(t, store.Purge(ctx, notified.AddDays(-120)))

		records, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2, records[0].UserID)
	})

	t.Run("delete removes a single user", func(t *testing.T) {
		store := newSQLiteStore(t)
		_, err := store.Insert(ctx, core.MailRecord{UserID: 1, LastNotified: notified})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, 1))
		_, err = store.Get(ctx, 1)
		assert.ErrorIs(t, err, core.ErrNoMailRecord)
	})
}
