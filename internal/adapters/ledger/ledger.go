// Package ledger defines the durable append-only record of feedback
// events. The ledger append is write-ahead: it must complete before
// any score mutation, so a crash between append and score update is
// recoverable by replay, and a failed append means the feedback never
// happened.
package ledger

import (
	"context"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
)

// Filter narrows History reads. Zero values mean "no constraint";
// Limit <= 0 falls back to DefaultHistoryLimit.
type Filter struct {
	ModelID string
	UserID  string
	Limit   int
}

// DefaultHistoryLimit bounds unconstrained history reads.
const DefaultHistoryLimit = 50

// Ledger is the narrow interface over the external durable store.
type Ledger interface {
	// Append durably records the event and returns its assigned id.
	// It honors ctx cancellation; on error nothing was recorded.
	Append(ctx context.Context, e feedback.Event) (string, error)

	// History returns recorded events, newest first.
	History(ctx context.Context, f Filter) ([]feedback.Event, error)

	// Replay streams every event oldest first. Used at startup to
	// rebuild the score store from the source of truth.
	Replay(ctx context.Context, fn func(e feedback.Event) error) error

	// Close releases the underlying store.
	Close() error
}
