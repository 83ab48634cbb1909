// Package maillog contains the persistent dedup stores that prevent a user
// from being reminded again before their cooldown elapses.
package maillog

import (
	"context"
	"sort"
	"sync"

	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// MemoryMailLog is an in-memory implementation of the MailLog interface.
// State does not survive a restart; it exists for tests and dry runs.
type MemoryMailLog struct {
	mu      sync.RWMutex
	records map[int]core.MailRecord
	logger  *zap.Logger
}

// NewMemoryMailLog creates an empty in-memory mail log.
func NewMemoryMailLog(logger *zap.Logger) *MemoryMailLog {
	return &MemoryMailLog{
		records: make(map[int]core.MailRecord),
		logger:  logger,
	}
}

// Insert stores the record unless one already exists for its user.
func (m *MemoryMailLog) Insert(ctx context.Context, rec core.MailRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.UserID]; exists {
		return false, nil
	}
	m.records[rec.UserID] = rec
	return true, nil
}

// Get returns the record for a user, or core.ErrNoMailRecord.
func (m *MemoryMailLog) Get(ctx context.Context, userID int) (*core.MailRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[userID]
	if !ok {
		return nil, core.ErrNoMailRecord
	}
	return &rec, nil
}

// All returns every record ordered by user ID.
func (m *MemoryMailLog) All(ctx context.Context) ([]core.MailRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	records := make([]core.MailRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, m.records[id])
	}
	return records, nil
}

// Delete removes the record for a user.
func (m *MemoryMailLog) Delete(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, userID)
	return nil
}

// Purge removes all records last notified on or before cutoff.
func (m *MemoryMailLog) Purge(ctx context.Context, cutoff core.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for id, rec := range m.records {
		if !cutoff.Before(rec.LastNotified) {
			delete(m.records, id)
			purged++
		}
	}
	if purged > 0 {
		m.logger.Debug("Purged expired mail records", zap.Int("purged", purged))
	}
	return nil
}
