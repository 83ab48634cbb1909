package maillog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// SQLiteMailLog is a SQLite implementation of the MailLog interface.
type SQLiteMailLog struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteMailLog opens (or creates) the mail-log database at dbPath.
func NewSQLiteMailLog(dbPath string, logger *zap.Logger) (*SQLiteMailLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS mail_log (
			user_id INTEGER PRIMARY KEY,
			mean_seconds REAL NOT NULL,
			last_notified TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create mail_log table: %w", err)
	}

	return &SQLiteMailLog{db: db, logger: logger}, nil
}

// Insert stores the record unless one already exists for its user.
func (m *SQLiteMailLog) Insert(ctx context.Context, rec core.MailRecord) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO mail_log (user_id, mean_seconds, last_notified)
		VALUES (?, ?, ?)
	`, rec.UserID, rec.MeanSeconds, rec.LastNotified.String())
	if err != nil {
		return false, fmt.Errorf("failed to insert mail record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return affected > 0, nil
}

// Get returns the record for a user, or core.ErrNoMailRecord.
func (m *SQLiteMailLog) Get(ctx context.Context, userID int) (*core.MailRecord, error) {
	var meanSeconds float64
	var lastNotified string

	err := m.db.QueryRowContext(ctx, `
		SELECT mean_seconds, last_notified
		FROM mail_log
		WHERE user_id = ?
	`, userID).Scan(&meanSeconds, &lastNotified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNoMailRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mail record: %w", err)
	}

	return scanRecord(userID, meanSeconds, lastNotified)
}

// All returns every record ordered by user ID.
func (m *SQLiteMailLog) All(ctx context.Context) ([]core.MailRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT user_id, mean_seconds, last_notified
		FROM mail_log
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mail records: %w", err)
	}
	defer rows.Close()

	var records []core.MailRecord
	for rows.Next() {
		var userID int
		var meanSeconds float64
		var lastNotified string
		if err := rows.Scan(&userID, &meanSeconds, &lastNotified); err != nil {
			return nil, fmt.Errorf("failed to scan mail record: %w", err)
		}
		rec, err := scanRecord(userID, meanSeconds, lastNotified)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mail records: %w", err)
	}
	return records, nil
}

// Delete removes the record for a user.
func (m *SQLiteMailLog) Delete(ctx context.Context, userID int) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM mail_log
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mail record: %w", err)
	}
	return nil
}

// Purge removes all records last notified on or before cutoff. ISO dates
// compare correctly as text.
func (m *SQLiteMailLog) Purge(ctx context.Context, cutoff core.Date) error {
	result, err := m.db.ExecContext(ctx, `
		DELETE FROM mail_log
		WHERE last_notified <= ?
	`, cutoff.String())
	if err != nil {
		return fmt.Errorf("failed to purge mail records: %w", err)
	}

	if purged, err := result.RowsAffected(); err == nil && purged > 0 {
		m.logger.Debug("Purged expired mail records", zap.Int64("purged", purged))
	}
	return nil
}

// Close closes the underlying database.
func (m *SQLiteMailLog) Close() error {
	return m.db.Close()
}

func scanRecord(userID int, meanSeconds float64, lastNotified string) (*core.MailRecord, error) {
	date, err := core.ParseDate(lastNotified)
	if err != nil {
		return nil, fmt.Errorf("corrupt last_notified for user %d: %w", userID, err)
	}
	return &core.MailRecord{
		UserID:       userID,
		MeanSeconds:  meanSeconds,
		LastNotified: date,
	}, nil
}
