// Package router decides which models a dispatcher should try for a
// tier, in rank order, and tracks operational health per model.
//
// Operational outcomes are a separate channel from user feedback: a
// run of failures suspends a model from the candidate list for a
// cooldown without touching its score or rank, so a transient outage
// is never confused with a bad reputation.
package router

import (
	"context"
	"sync"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/repository"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/metrics"
)

// Outcome is an operational result reported by the query dispatcher.
type Outcome string

// Recognized outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Valid reports whether o is a recognized outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}

// Default health thresholds.
const (
	DefaultFailureThreshold = 3
	DefaultCooldown         = 30 * time.Second
)

// Ranking is the read-only view of tier orderings the selector needs.
type Ranking interface {
	All(ctx context.Context, tier model.Tier) []repository.Entry
}

// ActiveChecker answers whether a model is currently active.
type ActiveChecker interface {
	Read(ctx context.Context, id string) (repository.Snapshot, error)
}

// health tracks consecutive failures for one (tier, model) pair.
// State machine: Active -> (threshold exceeded) -> Suspended ->
// (cooldown elapsed, next CandidatesFor) -> Active.
type health struct {
	failures       int
	suspendedUntil time.Time
}

func (h *health) suspended(now time.Time) bool {
	return !h.suspendedUntil.IsZero() && now.Before(h.suspendedUntil)
}

// Selector implements candidate selection with suspension filtering.
type Selector struct {
	mu     sync.Mutex
	states map[model.Tier]map[string]*health

	ranking   Ranking
	scores    ActiveChecker
	threshold int
	cooldown  time.Duration
	now       func() time.Time
	log       logger.Logger
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithFailureThreshold sets the consecutive-failure count that
// triggers suspension.
func WithFailureThreshold(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithCooldown sets how long a suspension lasts.
func WithCooldown(d time.Duration) Option {
	return func(s *Selector) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithClock injects the time source; tests use it to step cooldowns.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.log = l
		}
	}
}

// New constructs a Selector over the given ranking and score views.
func New(ranking Ranking, scores ActiveChecker, opts ...Option) *Selector {
	s := &Selector{
		states:    make(map[model.Tier]map[string]*health),
		ranking:   ranking,
		scores:    scores,
		threshold: DefaultFailureThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) state(tier model.Tier, id string) *health {
	byModel := s.states[tier]
	if byModel == nil {
		byModel = make(map[string]*health)
		s.states[tier] = byModel
	}
	h := byModel[id]
	if h == nil {
		h = &health{}
		byModel[id] = h
	}
	return h
}

// CandidatesFor returns the tier's active, non-suspended models in
// rank order: the list a dispatcher should try first to last. A
// suspension whose cooldown has elapsed is lifted here.
func (s *Selector) CandidatesFor(ctx context.Context, tier model.Tier) ([]string, error) {
	entries := s.ranking.All(ctx, tier)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		snap, err := s.scores.Read(ctx, e.ModelID)
		if err != nil || !snap.Active {
			continue
		}
		h := s.state(tier, e.ModelID)
		if h.suspended(now) {
			continue
		}
		if !h.suspendedUntil.IsZero() {
			// Cooldown elapsed: back to Active.
			h.suspendedUntil = time.Time{}
			h.failures = 0
			metrics.RecordModelReactivated(string(tier))
			if s.log != nil {
				s.log.Info(ctx, "model suspension lifted",
					logger.String("tier", string(tier)),
					logger.String("model", e.ModelID),
				)
			}
		}
		candidates = append(candidates, e.ModelID)
	}

	if len(candidates) == 0 {
		metrics.RecordNoAvailableModel(string(tier))
		return nil, ErrNoAvailableModel
	}
	return candidates, nil
}

// ReportOutcome records an operational result for a model. It never
// alters the model's score or rank, only its availability.
func (s *Selector) ReportOutcome(ctx context.Context, tier model.Tier, id string, outcome Outcome) error {
	if !outcome.Valid() {
		return ErrInvalidOutcome
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.state(tier, id)
	if outcome == OutcomeSuccess {
		h.failures = 0
		h.suspendedUntil = time.Time{}
		return nil
	}

	h.failures++
	if h.failures >= s.threshold && !h.suspended(s.now()) {
		h.suspendedUntil = s.now().Add(s.cooldown)
		h.failures = 0
		metrics.RecordModelSuspended(string(tier))
		if s.log != nil {
			s.log.Warn(ctx, "model suspended after consecutive failures",
				logger.String("tier", string(tier)),
				logger.String("model", id),
				logger.Int("threshold", s.threshold),
			)
		}
	}
	return nil
}

// Suspended reports whether a model is currently excluded from the
// candidate list.
func (s *Selector) Suspended(ctx context.Context, tier model.Tier, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	byModel := s.states[tier]
	if byModel == nil {
		return false
	}
	h := byModel[id]
	return h != nil && h.suspended(s.now())
}

// Report is one outcome report flowing from the dispatcher to the
// selector, usually via the async report queue.
type Report struct {
	Tier    model.Tier
	ModelID string
	Outcome Outcome
}
