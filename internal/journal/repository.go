// Package journal provides access to the journal table recording
// gate activity: entries, exits, and denied entries.
//
// The journal is a bounded operational history, not an analytics store.
// Every insert prunes rows beyond the configured maximum, oldest first,
// so the table never grows past a few screens of recent activity.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry kinds recorded in the journal.
const (
	KindEntry       = "entry"
	KindExit        = "exit"
	KindEntryDenied = "entry_denied"
)

// Entry represents one row of gate activity.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Available int       `json:"available"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the interface for journal operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}

// Default and maximum page sizes for Recent.
const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// SQLiteRepository stores journal entries in SQLite.
type SQLiteRepository struct {
	db      *sql.DB
	maxRows int
}

// NewSQLiteRepository creates a journal repository.
//
// Parameters:
//   - db: Open database handle (schema applied via migrations)
//   - maxRows: Row cap enforced after every insert (<=0 disables pruning)
func NewSQLiteRepository(db *sql.DB, maxRows int) *SQLiteRepository {
	return &SQLiteRepository{db: db, maxRows: maxRows}
}

// Create inserts a journal entry and prunes rows beyond the cap.
// The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "jnl-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO journal (id, kind, available, total, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Kind,
		entry.Available,
		entry.Total,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	return r.prune(ctx)
}

// prune deletes the oldest rows beyond the configured cap.
func (r *SQLiteRepository) prune(ctx context.Context) error {
	if r.maxRows <= 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM journal WHERE id NOT IN (
			SELECT id FROM journal ORDER BY created_at DESC, id DESC LIMIT ?
		)`,
		r.maxRows,
	)
	if err != nil {
		return fmt.Errorf("pruning journal: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
// A non-positive limit uses the default; limits above the maximum are capped.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, available, total, created_at
		 FROM journal ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Available, &e.Total, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck // Format is controlled
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal rows: %w", err)
	}
	return entries, nil
}

// Count returns the current number of journal rows.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting journal rows: %w", err)
	}
	return count, nil
}
