package repository

import (
	"context"
	"sync"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/metrics"
)

// DefaultBaselineScore is the score every model starts from.
const DefaultBaselineScore = 100

// modelState is the mutable record for one model. Its mutex serializes
// deltas against this model only; the store-level lock never covers a
// delta, so writes to different models do not contend.
type modelState struct {
	mu          sync.Mutex
	id          string
	name        string
	tier        model.Tier
	score       int
	counters    model.Counters
	total       int
	lastUpdated time.Time
	active      bool
}

func (m *modelState) snapshot() Snapshot {
	return Snapshot{
		ID:          m.id,
		Name:        m.name,
		Tier:        m.tier,
		Score:       m.score,
		Counters:    m.counters,
		Total:       m.total,
		LastUpdated: m.lastUpdated,
		Active:      m.active,
	}
}

// ScoreStore implements Scores with an in-memory map of per-model
// records. The map lock is held only for lookups and registration.
type ScoreStore struct {
	mu       sync.RWMutex
	models   map[string]*modelState
	baseline int
	now      func() time.Time
}

// ScoreOption applies a configuration option to the ScoreStore.
type ScoreOption func(*ScoreStore)

// WithBaselineScore overrides the starting score for new models.
func WithBaselineScore(score int) ScoreOption {
	return func(s *ScoreStore) {
		s.baseline = score
	}
}

// WithClock injects the time source used for lastUpdated stamps.
func WithClock(now func() time.Time) ScoreOption {
	return func(s *ScoreStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScoreStore constructs an empty score store.
func NewScoreStore(opts ...ScoreOption) *ScoreStore {
	s := &ScoreStore{
		models:   make(map[string]*modelState),
		baseline: DefaultBaselineScore,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScoreStore) lookup(id string) (*modelState, error) {
	s.mu.RLock()
	m, ok := s.models[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownModel
	}
	return m, nil
}

// Register creates the model with the baseline score if absent.
func (s *ScoreStore) Register(ctx context.Context, id, name string, tier model.Tier) (bool, error) {
	if name == "" {
		name = model.DisplayName(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[id]; ok {
		return false, nil
	}
	s.models[id] = &modelState{
		id:          id,
		name:        name,
		tier:        tier,
		score:       s.baseline,
		lastUpdated: s.now(),
		active:      true,
	}
	metrics.UpdateRegisteredModels(len(s.models))
	return true, nil
}

// ApplyDelta applies one feedback delta under the model's own lock.
func (s *ScoreStore) ApplyDelta(ctx context.Context, id string, delta int, kind feedback.Kind) (ApplyResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreApplyLatency(float64(time.Since(start).Milliseconds()))
	}()

	m, err := s.lookup(id)
	if err != nil {
		return ApplyResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return ApplyResult{}, ErrModelDeactivated
	}

	m.score += delta
	m.total++
	switch kind {
	case feedback.KindLike:
		m.counters.Likes++
	case feedback.KindDislike:
		m.counters.Dislikes++
	case feedback.KindStar:
		m.counters.Stars++
	}
	m.lastUpdated = s.now()

	return ApplyResult{
		NewScore:    m.score,
		Counters:    m.counters,
		Total:       m.total,
		Tier:        m.tier,
		LastUpdated: m.lastUpdated,
	}, nil
}

// Read returns a consistent snapshot of one model.
func (s *ScoreStore) Read(ctx context.Context, id string) (Snapshot, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(), nil
}

// List returns snapshots of all registered models.
func (s *ScoreStore) List(ctx context.Context) []Snapshot {
	s.mu.RLock()
	states := make([]*modelState, 0, len(s.models))
	for _, m := range s.models {
		states = append(states, m)
	}
	s.mu.RUnlock()

	out := make([]Snapshot, 0, len(states))
	for _, m := range states {
		m.mu.Lock()
		out = append(out, m.snapshot())
		m.mu.Unlock()
	}
	return out
}

// Deactivate excludes a model from ranking and routing.
func (s *ScoreStore) Deactivate(ctx context.Context, id string) (Snapshot, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	return m.snapshot(), nil
}

// Reactivate re-admits a deactivated model.
func (s *ScoreStore) Reactivate(ctx context.Context, id string) (Snapshot, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = true
	return m.snapshot(), nil
}

// Retier moves a model to a new tier and returns the previous one.
func (s *ScoreStore) Retier(ctx context.Context, id string, tier model.Tier) (model.Tier, Snapshot, error) {
	m, err := s.lookup(id)
	if err != nil {
		return "", Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.tier
	m.tier = tier
	m.lastUpdated = s.now()
	return prev, m.snapshot(), nil
}

// ResetScore sets the score to an explicit value (admin path).
func (s *ScoreStore) ResetScore(ctx context.Context, id string, score int) (Snapshot, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	m.lastUpdated = s.now()
	return m.snapshot(), nil
}

// Count returns the number of registered models.
func (s *ScoreStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}
