package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/types"
)

// ModelsHandler handles per-model stats and admin operations.
type ModelsHandler struct {
	deps ModelDependencies
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps ModelDependencies) *ModelsHandler {
	return &ModelsHandler{deps: deps}
}

// HandleGetStats handles GET /models/stats?model_identifier=... requests.
// Model identifiers contain slashes, so they travel as a query param.
func (h *ModelsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_model_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("model_identifier"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, errors.New("missing model_identifier")))
		return
	}
	stats, err := h.deps.StatsFor(r.Context(), id)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// resetScoreRequest mirrors the OpenAPI schema for POST /models/reset-score.
type resetScoreRequest struct {
	ModelIdentifier string `json:"model_identifier"`
	NewScore        int    `json:"new_score"`
}

// HandleResetScore handles POST /models/reset-score requests.
func (h *ModelsHandler) HandleResetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resetScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ModelIdentifier) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	stats, err := h.deps.ResetScore(r.Context(), req.ModelIdentifier, req.NewScore)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// modelRequest is the shared body for deactivate/reactivate.
type modelRequest struct {
	ModelIdentifier string `json:"model_identifier"`
}

// HandleDeactivate handles POST /models/deactivate requests.
func (h *ModelsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.applyToModel(w, r, "api.deactivate_model", h.deps.Deactivate)
}

// HandleReactivate handles POST /models/reactivate requests.
func (h *ModelsHandler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.applyToModel(w, r, "api.reactivate_model", h.deps.Reactivate)
}

func (h *ModelsHandler) applyToModel(w http.ResponseWriter, r *http.Request, op string, apply func(ctx context.Context, id string) (types.ModelStats, error)) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req modelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ModelIdentifier) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	stats, err := apply(r.Context(), req.ModelIdentifier)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// retierRequest mirrors the OpenAPI schema for POST /models/retier.
type retierRequest struct {
	ModelIdentifier string `json:"model_identifier"`
	Tier            string `json:"tier"`
}

// HandleRetier handles POST /models/retier requests.
func (h *ModelsHandler) HandleRetier(w http.ResponseWriter, r *http.Request) {
	const op = "api.retier_model"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req retierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.ModelIdentifier) == "" || strings.TrimSpace(req.Tier) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	stats, err := h.deps.Retier(r.Context(), req.ModelIdentifier, req.Tier)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
