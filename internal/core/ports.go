package core

import (
	"context"
)

// PresenceSource loads the punch data set.
type PresenceSource interface {
	// Load parses the punch source into a fresh index. The caller owns the
	// returned index.
	Load(ctx context.Context) (PresenceIndex, error)
}

// DirectorySource loads the user directory.
type DirectorySource interface {
	// Load parses the directory document into entries keyed by user ID.
	Load(ctx context.Context) (map[int]DirectoryEntry, error)
}

// MailLog is the persistent dedup store for sent reminders.
type MailLog interface {
	// Insert stores the record unless one already exists for its user ID.
	// It reports whether the record was actually written.
	Insert(ctx context.Context, rec MailRecord) (bool, error)

	// Get returns the record for a user, or ErrNoMailRecord.
	Get(ctx context.Context, userID int) (*MailRecord, error)

	// All returns every record, ordered by user ID.
	All(ctx context.Context) ([]MailRecord, error)

	// Delete removes the record for a user. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, userID int) error

	// Purge removes all records last notified on or before cutoff.
	Purge(ctx context.Context, cutoff Date) error
}

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Send(ctx context.Context, n *Notification) error
}
