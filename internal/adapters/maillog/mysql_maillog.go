package maillog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// MySQLMailLog is a MySQL implementation of the MailLog interface, for
// deployments where several instances share one dedup store.
type MySQLMailLog struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLMailLog connects to MySQL using the given DSN and ensures the
// mail_log table exists.
func NewMySQLMailLog(dsn string, logger *zap.Logger) (*MySQLMailLog, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS mail_log (
			user_id INT PRIMARY KEY,
			mean_seconds DOUBLE NOT NULL,
			last_notified DATE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create mail_log table: %w", err)
	}

	return &MySQLMailLog{db: db, logger: logger}, nil
}

// Insert stores the record unless one already exists for its user.
func (m *MySQLMailLog) Insert(ctx context.Context, rec core.MailRecord) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT IGNORE INTO mail_log (user_id, mean_seconds, last_notified)
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
func (m *MySQLMailLog) Get(ctx context.Context, userID int) (*core.MailRecord, error) {
	var meanSeconds float64
	var lastNotified string

	err := m.db.QueryRowContext(ctx, `
		SELECT mean_seconds, DATE_FORMAT(last_notified, '%Y-%m-%d')
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
func (m *MySQLMailLog) All(ctx context.Context) ([]core.MailRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT user_id, mean_seconds, DATE_FORMAT(last_notified, '%Y-%m-%d')
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
func (m *MySQLMailLog) Delete(ctx context.Context, userID int) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM mail_log
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mail record: %w", err)
	}
	return nil
}

// Purge removes all records last notified on or before cutoff.
func (m *MySQLMailLog) Purge(ctx context.Context, cutoff core.Date) error {
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

// Close closes the underlying connection pool.
func (m *MySQLMailLog) Close() error {
	return m.db.Close()
}
