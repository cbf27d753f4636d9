// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/types"
)

// Dependencies bundles the service operations HTTP handlers rely on.
// Each handler declares the narrow slice it needs; this is the union
// satisfied by the service.
type Dependencies interface {
	FeedbackDependencies
	LeaderboardDependencies
	ModelDependencies
	RoutingDependencies
	HistoryDependencies
}

// FeedbackDependencies defines the interface for feedback submission.
type FeedbackDependencies interface {
	SubmitFeedback(ctx context.Context, queryID, userID, modelID string, kind feedback.Kind) (types.FeedbackResult, error)
}

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, tier string, n int) ([]types.RankEntry, error)
	AllLeaderboards(ctx context.Context, n int) (map[string][]types.RankEntry, error)
	Summary(ctx context.Context) (types.Summary, error)
}

// ModelDependencies defines the interface for per-model reads and
// admin operations.
type ModelDependencies interface {
	StatsFor(ctx context.Context, modelID string) (types.ModelStats, error)
	ResetScore(ctx context.Context, modelID string, score int) (types.ModelStats, error)
	Deactivate(ctx context.Context, modelID string) (types.ModelStats, error)
	Reactivate(ctx context.Context, modelID string) (types.ModelStats, error)
	Retier(ctx context.Context, modelID, tier string) (types.ModelStats, error)
}

// RoutingDependencies defines the interface for candidate selection
// and outcome reporting.
type RoutingDependencies interface {
	CandidatesFor(ctx context.Context, tier string) ([]string, error)
	EnqueueOutcome(ctx context.Context, tier, modelID, outcome string) error
}

// HistoryDependencies defines the interface for ledger audit reads.
type HistoryDependencies interface {
	History(ctx context.Context, modelID string, limit int) ([]types.FeedbackRecord, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	feedbackHandler    *FeedbackHandler
	leaderboardHandler *LeaderboardHandler
	modelsHandler      *ModelsHandler
	routingHandler     *RoutingHandler
	historyHandler     *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		feedbackHandler:    NewFeedbackHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		modelsHandler:      NewModelsHandler(deps),
		routingHandler:     NewRoutingHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/feedback", MetricsMiddleware(s.feedbackHandler.HandlePostFeedback, "feedback"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetAll, "leaderboard"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleGetTier, "leaderboard_tier"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.leaderboardHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/models/stats", MetricsMiddleware(s.modelsHandler.HandleGetStats, "model_stats"))
	mux.HandleFunc("/models/reset-score", MetricsMiddleware(s.modelsHandler.HandleResetScore, "model_reset_score"))
	mux.HandleFunc("/models/deactivate", MetricsMiddleware(s.modelsHandler.HandleDeactivate, "model_deactivate"))
	mux.HandleFunc("/models/reactivate", MetricsMiddleware(s.modelsHandler.HandleReactivate, "model_reactivate"))
	mux.HandleFunc("/models/retier", MetricsMiddleware(s.modelsHandler.HandleRetier, "model_retier"))
	mux.HandleFunc("/candidates/", MetricsMiddleware(s.routingHandler.HandleGetCandidates, "candidates"))
	mux.HandleFunc("/outcomes", MetricsMiddleware(s.routingHandler.HandlePostOutcome, "outcomes"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
