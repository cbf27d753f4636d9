// Package repository holds the two shared mutable structures of the
// rating system: the score store (authoritative per-model scores and
// counters) and the tier index (derived per-tier ordering). All score
// mutation goes through the score store; the tier index only re-orders.
package repository

import (
	"context"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
)

// Entry represents a ranked row for a model within a tier.
type Entry struct {
	Rank        int
	ModelID     string
	Score       int
	LastUpdated time.Time
}

// Snapshot is a point-in-time view of one model's state. Score and
// counters are read together under the model's lock, so a snapshot is
// never half-applied.
type Snapshot struct {
	ID          string
	Name        string
	Tier        model.Tier
	Score       int
	Counters    model.Counters
	Total       int
	LastUpdated time.Time
	Active      bool
}

// ApplyResult reports the outcome of a single applied delta.
type ApplyResult struct {
	NewScore    int
	Counters    model.Counters
	Total       int
	Tier        model.Tier
	LastUpdated time.Time
}

// Scores provides atomic access to per-model score state.
type Scores interface {
	// Register creates the model with the baseline score if it does not
	// exist yet. Returns true if a new model was created.
	Register(ctx context.Context, id, name string, tier model.Tier) (bool, error)

	// ApplyDelta applies a feedback delta to one model. Concurrent
	// deltas against the same model serialize; deltas against different
	// models proceed independently.
	// Returns ErrUnknownModel or ErrModelDeactivated without mutating.
	ApplyDelta(ctx context.Context, id string, delta int, kind feedback.Kind) (ApplyResult, error)

	// Read returns a consistent snapshot of one model.
	Read(ctx context.Context, id string) (Snapshot, error)

	// List returns snapshots of all registered models.
	List(ctx context.Context) []Snapshot

	// Deactivate excludes a model from ranking and routing; the record
	// is kept for audit. Reactivate reverses it.
	Deactivate(ctx context.Context, id string) (Snapshot, error)
	Reactivate(ctx context.Context, id string) (Snapshot, error)

	// Retier moves a model to another tier. Returns the previous tier.
	Retier(ctx context.Context, id string, tier model.Tier) (model.Tier, Snapshot, error)

	// ResetScore sets a model's score to an explicit value (admin path).
	ResetScore(ctx context.Context, id string, score int) (Snapshot, error)

	// Count returns the number of registered models.
	Count(ctx context.Context) int
}

// Index maintains the derived per-tier ordering. It never mutates
// scores; callers re-insert a model after every applied delta.
type Index interface {
	// Upsert places the model at its position for (score, updated).
	// A key with an older updated stamp than the stored entry is
	// ignored, so re-insertions may land in any order.
	Upsert(ctx context.Context, tier model.Tier, id string, score int, updated time.Time)

	// Remove drops the model from its tier ordering. Other models keep
	// their relative order; ranks stay contiguous on the next read.
	Remove(ctx context.Context, tier model.Tier, id string)

	// TopN returns up to n entries in rank order. Returns
	// ErrInvalidLimit when n < 1; an unknown or empty tier yields an
	// empty slice, not an error.
	TopN(ctx context.Context, tier model.Tier, n int) ([]Entry, error)

	// All returns the full ordering of a tier.
	All(ctx context.Context, tier model.Tier) []Entry

	// RankOf returns the entry for one model, or ErrNotRanked.
	RankOf(ctx context.Context, tier model.Tier, id string) (Entry, error)

	// Count returns the number of ranked models in a tier.
	Count(ctx context.Context, tier model.Tier) int

	// Tiers lists the tiers that currently have ranked models.
	Tiers(ctx context.Context) []model.Tier
}
