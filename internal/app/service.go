// Package service wires the rating pipeline together and implements
// the dependencies required by the HTTP API: the write-ahead ledger,
// the score store, the per-tier ranking index, the routing selector
// and the async outcome report queue.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/ledger"
	reportqueue "github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/mq/queue"
	workerpool "github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/mq/worker"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/repository"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/router"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/types"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	defaultQueueSize       = 10000
	defaultMaxLimit        = 100
	defaultFeedbackTimeout = 2 * time.Second
)

// Service implements the rating and routing operations behind the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	scores      repository.Scores
	index       repository.Index
	journal     ledger.Ledger
	selector    *router.Selector
	reportQueue reportqueue.Queue
	workerPool  *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	maxLimit         int
	baseline         int
	failureThreshold int
	cooldown         time.Duration
	feedbackTimeout  time.Duration
	seed             map[model.Tier][]string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of outcome report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the outcome report queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxLeaderboardLimit caps the per-request leaderboard size.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithBaselineScore sets the starting score for new models.
func WithBaselineScore(score int) Option {
	return func(s *Service) {
		s.baseline = score
	}
}

// WithFailureThreshold sets the consecutive-failure suspension threshold.
func WithFailureThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.failureThreshold = n
		}
	}
}

// WithCooldown sets the suspension cooldown duration.
func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithFeedbackTimeout bounds the ledger append on the feedback path.
func WithFeedbackTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.feedbackTimeout = d
		}
	}
}

// WithLedger injects the durable ledger. Tests pass the in-memory
// implementation; main passes SQLite.
func WithLedger(l ledger.Ledger) Option {
	return func(s *Service) {
		if l != nil {
			s.journal = l
		}
	}
}

// WithModels seeds the model registry: tier name to model identifiers.
func WithModels(models map[string][]string) Option {
	return func(s *Service) {
		if len(models) == 0 {
			return
		}
		s.seed = make(map[model.Tier][]string, len(models))
		for tier, ids := range models {
			s.seed[model.Tier(tier)] = ids
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        defaultQueueSize,
		maxLimit:         defaultMaxLimit,
		baseline:         repository.DefaultBaselineScore,
		failureThreshold: router.DefaultFailureThreshold,
		cooldown:         router.DefaultCooldown,
		feedbackTimeout:  defaultFeedbackTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the components, registers configured models and
// replays the ledger to rebuild scores.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rating service...")

	s.scores = repository.NewScoreStore(
		repository.WithBaselineScore(s.baseline),
	)
	s.index = repository.NewTierIndex()
	if s.journal == nil {
		s.journal = ledger.NewMemory()
	}
	s.selector = router.New(s.index, s.scores,
		router.WithFailureThreshold(s.failureThreshold),
		router.WithCooldown(s.cooldown),
		router.WithLogger(s.logger),
	)

	for tier, ids := range s.seed {
		for _, id := range ids {
			if _, err := s.scores.Register(ctx, id, "", tier); err != nil {
				return err
			}
		}
	}

	if err := s.replay(ctx); err != nil {
		return err
	}

	// Seed the ranking index from the recovered scores.
	for _, snap := range s.scores.List(ctx) {
		if snap.Active {
			s.index.Upsert(ctx, snap.Tier, snap.ID, snap.Score, snap.LastUpdated)
		}
	}

	s.reportQueue = reportqueue.NewInMemoryQueue(
		reportqueue.WithCapacity(s.queueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.reportQueue, s.selector)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("models", s.scores.Count(ctx)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// replay re-applies every ledger event to the score store. Events for
// models no longer registered are skipped, not fatal.
func (s *Service) replay(ctx context.Context) error {
	var applied, skipped int
	err := s.journal.Replay(ctx, func(e feedback.Event) error {
		_, err := s.scores.ApplyDelta(ctx, e.ModelID, e.Delta, e.Kind)
		switch {
		case err == nil:
			applied++
		case errors.Is(err, repository.ErrUnknownModel),
			errors.Is(err, repository.ErrModelDeactivated):
			skipped++
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if applied > 0 || skipped > 0 {
		s.logger.Info(ctx, "ledger replay complete",
			logger.Int("applied", applied),
			logger.Int("skipped", skipped),
		)
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping rating service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if s.journal != nil {
		_ = s.journal.Close()
	}

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
}

// SubmitFeedback validates, journals and applies one feedback event,
// then re-ranks the model. The ledger append is write-ahead: if it
// fails, no score changes.
func (s *Service) SubmitFeedback(ctx context.Context, queryID, userID, modelID string, kind feedback.Kind) (types.FeedbackResult, error) {
	if !kind.Valid() {
		metrics.RecordFeedbackRejected("invalid_kind")
		return types.FeedbackResult{}, ErrInvalidKind
	}

	snap, err := s.scores.Read(ctx, modelID)
	if err != nil {
		metrics.RecordFeedbackRejected("unknown_model")
		return types.FeedbackResult{}, err
	}
	if !snap.Active {
		metrics.RecordFeedbackRejected("deactivated")
		return types.FeedbackResult{}, repository.ErrModelDeactivated
	}

	appendCtx, cancel := context.WithTimeout(ctx, s.feedbackTimeout)
	defer cancel()
	if _, err := s.journal.Append(appendCtx, feedback.Event{
		QueryID:   queryID,
		UserID:    userID,
		ModelID:   modelID,
		Kind:      kind,
		Delta:     kind.Delta(),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		metrics.RecordFeedbackRejected("persistence")
		return types.FeedbackResult{}, err
	}

	res, err := s.scores.ApplyDelta(ctx, modelID, kind.Delta(), kind)
	if err != nil {
		return types.FeedbackResult{}, err
	}
	s.index.Upsert(ctx, res.Tier, modelID, res.NewScore, res.LastUpdated)

	metrics.RecordFeedbackProcessed(string(kind))
	return types.FeedbackResult{
		Success:         true,
		ModelIdentifier: modelID,
		FeedbackType:    string(kind),
		PointsChange:    kind.Delta(),
		NewScore:        res.NewScore,
		TotalFeedbacks:  res.Total,
	}, nil
}

// TopN returns up to n leaderboard rows for a tier, best first. An
// unknown or empty tier yields an empty list.
func (s *Service) TopN(ctx context.Context, tier string, n int) ([]types.RankEntry, error) {
	if n > s.maxLimit {
		n = s.maxLimit
	}
	entries, err := s.index.TopN(ctx, model.Tier(tier), n)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, entries), nil
}

// AllLeaderboards returns the ranked rows of every tier that has
// ranked models.
func (s *Service) AllLeaderboards(ctx context.Context, n int) (map[string][]types.RankEntry, error) {
	if n > s.maxLimit {
		n = s.maxLimit
	}
	out := make(map[string][]types.RankEntry)
	for _, tier := range s.index.Tiers(ctx) {
		entries, err := s.index.TopN(ctx, tier, n)
		if err != nil {
			return nil, err
		}
		out[string(tier)] = s.project(ctx, entries)
	}
	return out, nil
}

// project joins ranking entries with their score store snapshots.
func (s *Service) project(ctx context.Context, entries []repository.Entry) []types.RankEntry {
	out := make([]types.RankEntry, 0, len(entries))
	for _, e := range entries {
		snap, err := s.scores.Read(ctx, e.ModelID)
		if err != nil {
			continue
		}
		out = append(out, types.RankEntry{
			Rank:            e.Rank,
			ModelIdentifier: snap.ID,
			ModelName:       snap.Name,
			Score:           e.Score,
			TotalLikes:      snap.Counters.Likes,
			TotalDislikes:   snap.Counters.Dislikes,
			TotalStars:      snap.Counters.Stars,
			TotalFeedbacks:  snap.Total,
			SuccessRate:     snap.Counters.SuccessRate(),
		})
	}
	return out
}

// StatsFor returns the full stats of one model, including its current
// tier rank when ranked.
func (s *Service) StatsFor(ctx context.Context, modelID string) (types.ModelStats, error) {
	snap, err := s.scores.Read(ctx, modelID)
	if err != nil {
		return types.ModelStats{}, err
	}
	return s.statsWithRank(ctx, snap), nil
}

// statsWithRank joins a snapshot with its tier rank. Deactivated
// models are not ranked; their rank stays zero.
func (s *Service) statsWithRank(ctx context.Context, snap repository.Snapshot) types.ModelStats {
	stats := statsFrom(snap)
	if entry, err := s.index.RankOf(ctx, snap.Tier, snap.ID); err == nil {
		stats.Rank = entry.Rank
	}
	return stats
}

func statsFrom(snap repository.Snapshot) types.ModelStats {
	return types.ModelStats{
		ModelIdentifier: snap.ID,
		ModelName:       snap.Name,
		Tier:            string(snap.Tier),
		Score:           snap.Score,
		TotalLikes:      snap.Counters.Likes,
		TotalDislikes:   snap.Counters.Dislikes,
		TotalStars:      snap.Counters.Stars,
		TotalFeedbacks:  snap.Total,
		SuccessRate:     snap.Counters.SuccessRate(),
		LastUpdated:     snap.LastUpdated.UTC().Format(time.RFC3339),
		Active:          snap.Active,
	}
}

// Summary aggregates counters across active models and reports the
// current number one per tier.
func (s *Service) Summary(ctx context.Context) (types.Summary, error) {
	sum := types.Summary{TopModels: make(map[string]types.TopModel)}
	for _, snap := range s.scores.List(ctx) {
		if !snap.Active {
			continue
		}
		sum.TotalModels++
		sum.TotalLikes += snap.Counters.Likes
		sum.TotalDislikes += snap.Counters.Dislikes
		sum.TotalStars += snap.Counters.Stars
	}
	for _, tier := range s.index.Tiers(ctx) {
		top, err := s.index.TopN(ctx, tier, 1)
		if err != nil || len(top) == 0 {
			continue
		}
		snap, err := s.scores.Read(ctx, top[0].ModelID)
		if err != nil {
			continue
		}
		sum.TopModels[string(tier)] = types.TopModel{
			ModelIdentifier: snap.ID,
			ModelName:       snap.Name,
			Score:           snap.Score,
		}
	}
	return sum, nil
}

// History returns recorded feedback events, newest first.
func (s *Service) History(ctx context.Context, modelID string, limit int) ([]types.FeedbackRecord, error) {
	events, err := s.journal.History(ctx, ledger.Filter{ModelID: modelID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]types.FeedbackRecord, len(events))
	for i, e := range events {
		out[i] = types.FeedbackRecord{
			ID:              e.ID,
			QueryID:         e.QueryID,
			UserID:          e.UserID,
			ModelIdentifier: e.ModelID,
			FeedbackType:    string(e.Kind),
			PointsChange:    e.Delta,
			CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out, nil
}

// CandidatesFor returns the model ids a dispatcher should try for a
// tier, best first, with suspended and inactive models filtered out.
func (s *Service) CandidatesFor(ctx context.Context, tier string) ([]string, error) {
	candidates, err := s.selector.CandidatesFor(ctx, model.Tier(tier))
	if err != nil {
		return nil, err
	}
	metrics.RecordCandidatesServed(tier)
	return candidates, nil
}

// EnqueueOutcome accepts an operational outcome report for async
// application to routing health state.
func (s *Service) EnqueueOutcome(ctx context.Context, tier, modelID string, outcome string) error {
	o := router.Outcome(outcome)
	if !o.Valid() {
		return ErrInvalidOutcome
	}
	if _, err := s.scores.Read(ctx, modelID); err != nil {
		return err
	}
	if !s.reportQueue.Enqueue(ctx, reportqueue.Report{
		Tier:    model.Tier(tier),
		ModelID: modelID,
		Outcome: o,
	}) {
		return ErrQueueFull
	}
	return nil
}

// ResetScore sets a model's score to an explicit value through the
// same atomic paths feedback uses.
func (s *Service) ResetScore(ctx context.Context, modelID string, score int) (types.ModelStats, error) {
	snap, err := s.scores.ResetScore(ctx, modelID, score)
	if err != nil {
		return types.ModelStats{}, err
	}
	if snap.Active {
		s.index.Upsert(ctx, snap.Tier, snap.ID, snap.Score, snap.LastUpdated)
	}
	return s.statsWithRank(ctx, snap), nil
}

// Deactivate removes a model from ranking and routing, keeping its
// record for audit.
func (s *Service) Deactivate(ctx context.Context, modelID string) (types.ModelStats, error) {
	snap, err := s.scores.Deactivate(ctx, modelID)
	if err != nil {
		return types.ModelStats{}, err
	}
	s.index.Remove(ctx, snap.Tier, snap.ID)
	return statsFrom(snap), nil
}

// Reactivate re-admits a deactivated model at its retained score.
func (s *Service) Reactivate(ctx context.Context, modelID string) (types.ModelStats, error) {
	snap, err := s.scores.Reactivate(ctx, modelID)
	if err != nil {
		return types.ModelStats{}, err
	}
	s.index.Upsert(ctx, snap.Tier, snap.ID, snap.Score, snap.LastUpdated)
	return s.statsWithRank(ctx, snap), nil
}

// Retier moves a model between tiers, keeping its score.
func (s *Service) Retier(ctx context.Context, modelID, tier string) (types.ModelStats, error) {
	prev, snap, err := s.scores.Retier(ctx, modelID, model.Tier(tier))
	if err != nil {
		return types.ModelStats{}, err
	}
	s.index.Remove(ctx, prev, snap.ID)
	if snap.Active {
		s.index.Upsert(ctx, snap.Tier, snap.ID, snap.Score, snap.LastUpdated)
	}
	return s.statsWithRank(ctx, snap), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		queueLen := s.reportQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["totalModels"] = s.scores.Count(ctx)

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
