package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS feedback_events (
	id            TEXT PRIMARY KEY,
	query_id      TEXT NOT NULL,
	user_id       TEXT NOT NULL DEFAULT '',
	model_id      TEXT NOT NULL,
	kind          TEXT NOT NULL,
	delta         INTEGER NOT NULL,
	created_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_model ON feedback_events(model_id);
CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback_events(created_at);
`

// SQLite implements Ledger on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the ledger database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return &SQLite{db: db}, nil
}

// Append durably records the event before returning.
func (l *SQLite) Append(ctx context.Context, e feedback.Event) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLedgerAppendLatency(float64(time.Since(start).Milliseconds()))
	}()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO feedback_events (id, query_id, user_id, model_id, kind, delta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.QueryID, e.UserID, e.ModelID, string(e.Kind), e.Delta, e.CreatedAt,
	)
	if err != nil {
		metrics.RecordLedgerAppendError()
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return e.ID, nil
}

// History returns recorded events, newest first.
func (l *SQLite) History(ctx context.Context, f Filter) ([]feedback.Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT id, query_id, user_id, model_id, kind, delta, created_at
		FROM feedback_events WHERE 1=1`
	args := make([]any, 0, 3)
	if f.ModelID != "" {
		query += " AND model_id = ?"
		args = append(args, f.ModelID)
	}
	if f.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, f.UserID)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	out := make([]feedback.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return out, nil
}

// Replay streams every event oldest first.
func (l *SQLite) Replay(ctx context.Context, fn func(e feedback.Event) error) error {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, query_id, user_id, model_id, kind, delta, created_at
		 FROM feedback_events ORDER BY created_at ASC`)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Close releases the database handle.
func (l *SQLite) Close() error {
	return l.db.Close()
}

func scanEvent(rows *sql.Rows) (feedback.Event, error) {
	var (
		e    feedback.Event
		kind string
	)
	if err := rows.Scan(&e.ID, &e.QueryID, &e.UserID, &e.ModelID, &kind, &e.Delta, &e.CreatedAt); err != nil {
		return feedback.Event{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	e.Kind = feedback.Kind(kind)
	return e, nil
}
