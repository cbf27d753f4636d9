package api

import (
	"net/http"
	"strconv"
	"strings"
)

// HistoryHandler handles feedback audit reads.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /history?model_identifier=&limit= requests,
// newest first.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	modelID := strings.TrimSpace(r.URL.Query().Get("model_identifier"))
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
			return
		}
		limit = n
	}
	records, err := h.deps.History(r.Context(), modelID, limit)
	if err != nil {
		status, code := translate(err)
		writeError(w, status, code, wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}
