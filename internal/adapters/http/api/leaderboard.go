package api

import (
	"net/http"
	"strconv"
	"strings"
)

// defaultLeaderboardLimit applies when no limit query param is given.
const defaultLeaderboardLimit = 10

// LeaderboardHandler handles leaderboard and summary requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// limitParam parses the limit query param with a default and cap.
func (h *LeaderboardHandler) limitParam(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLeaderboardLimit, nil
	}
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		return 0, ErrBadRequest
	}
	if n > h.maxLimit {
		n = h.maxLimit
	}
	return n, nil
}

// HandleGetTier handles GET /leaderboard/{tier}?limit=N requests.
func (h *LeaderboardHandler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard_tier"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tier := strings.Trim(strings.TrimPrefix(r.URL.Path, "/leaderboard/"), "/")
	if tier == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	n, err := h.limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
		return
	}
	entries, err := h.deps.TopN(r.Context(), tier, n)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetAll handles GET /leaderboard?limit=N requests, returning
// the ranked rows of every tier.
func (h *LeaderboardHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := h.limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
		return
	}
	boards, err := h.deps.AllLeaderboards(r.Context(), n)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// HandleGetSummary handles GET /summary requests.
func (h *LeaderboardHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Summary(r.Context())
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
