package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
)

// Memory implements Ledger in process memory. It keeps the same
// write-ahead contract as the SQLite ledger and backs tests and
// deployments that accept losing audit history on restart.
type Memory struct {
	mu     sync.RWMutex
	events []feedback.Event

	// failNext forces the next Append to fail; used by tests to
	// exercise the no-mutation-on-persistence-error path.
	failNext bool
}

// NewMemory constructs an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{}
}

// FailNextAppend makes the next Append return ErrPersistence.
func (l *Memory) FailNextAppend() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNext = true
}

// Append records the event in memory.
func (l *Memory) Append(ctx context.Context, e feedback.Event) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failNext {
		l.failNext = false
		return "", ErrPersistence
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	l.events = append(l.events, e)
	return e.ID, nil
}

// History returns recorded events, newest first.
func (l *Memory) History(ctx context.Context, f Filter) ([]feedback.Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]feedback.Event, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := l.events[i]
		if f.ModelID != "" && e.ModelID != f.ModelID {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Replay streams every event oldest first.
func (l *Memory) Replay(ctx context.Context, fn func(e feedback.Event) error) error {
	l.mu.RLock()
	events := make([]feedback.Event, len(l.events))
	copy(events, l.events)
	l.mu.RUnlock()

	for _, e := range events {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for the in-memory ledger.
func (l *Memory) Close() error {
	return nil
}
