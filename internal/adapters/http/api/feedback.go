package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
)

// userIDHeader carries the submitting user's id. Opaque passthrough;
// repeat ratings from the same user are allowed.
const userIDHeader = "X-User-ID"

// feedbackRequest mirrors the OpenAPI schema for POST /feedback.
type feedbackRequest struct {
	QueryID         string `json:"query_id"`
	ModelIdentifier string `json:"model_identifier"`
	FeedbackType    string `json:"feedback_type"`
}

func (f feedbackRequest) validate() error {
	switch {
	case strings.TrimSpace(f.QueryID) == "":
		return errors.New("missing query_id")
	case strings.TrimSpace(f.ModelIdentifier) == "":
		return errors.New("missing model_identifier")
	case strings.TrimSpace(f.FeedbackType) == "":
		return errors.New("missing feedback_type")
	}
	return nil
}

// FeedbackHandler handles feedback submissions.
type FeedbackHandler struct {
	deps FeedbackDependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps FeedbackDependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

// HandlePostFeedback handles POST /feedback requests. The submission
// is synchronous: the response carries the score after the delta.
func (h *FeedbackHandler) HandlePostFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_feedback"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
		return
	}

	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	result, err := h.deps.SubmitFeedback(r.Context(), req.QueryID, userID, req.ModelIdentifier, feedback.Kind(req.FeedbackType))
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
