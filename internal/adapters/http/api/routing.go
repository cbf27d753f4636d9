package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RoutingHandler handles candidate selection and outcome reports.
type RoutingHandler struct {
	deps RoutingDependencies
}

// NewRoutingHandler creates a new routing handler.
func NewRoutingHandler(deps RoutingDependencies) *RoutingHandler {
	return &RoutingHandler{deps: deps}
}

// candidatesResponse mirrors the OpenAPI schema for GET /candidates/{tier}.
type candidatesResponse struct {
	Tier       string   `json:"tier"`
	Candidates []string `json:"candidates"`
}

// HandleGetCandidates handles GET /candidates/{tier} requests. The
// list is the tier ranking with suspended and inactive models removed.
func (h *RoutingHandler) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_candidates"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tier := strings.Trim(strings.TrimPrefix(r.URL.Path, "/candidates/"), "/")
	if tier == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	candidates, err := h.deps.CandidatesFor(r.Context(), tier)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, candidatesResponse{Tier: tier, Candidates: candidates})
}

// outcomeRequest mirrors the OpenAPI schema for POST /outcomes.
type outcomeRequest struct {
	Tier            string `json:"tier"`
	ModelIdentifier string `json:"model_identifier"`
	Outcome         string `json:"outcome"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandlePostOutcome handles POST /outcomes requests. Reports are
// acknowledgement-only: accepted reports are applied asynchronously.
func (h *RoutingHandler) HandlePostOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_outcome"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Tier) == "" || strings.TrimSpace(req.ModelIdentifier) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	if err := h.deps.EnqueueOutcome(r.Context(), req.Tier, req.ModelIdentifier, req.Outcome); err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
