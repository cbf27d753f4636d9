package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/ledger"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/repository"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/router"
	service "github.com/HagAli22/LLM-Dynamic-routing/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("api docs serve failed")
	ErrBadRequest = errors.New("bad request")
)

// wrap annotates an error with the failing operation.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// translate maps service errors onto an HTTP status and error code.
// Unknown errors fall through to 500.
func translate(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidKind):
		return http.StatusBadRequest, "invalid_feedback_type"
	case errors.Is(err, service.ErrInvalidOutcome):
		return http.StatusBadRequest, "invalid_outcome"
	case errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "invalid_limit"
	case errors.Is(err, repository.ErrUnknownModel):
		return http.StatusNotFound, "unknown_model"
	case errors.Is(err, repository.ErrModelDeactivated):
		return http.StatusConflict, "model_deactivated"
	case errors.Is(err, router.ErrNoAvailableModel):
		return http.StatusServiceUnavailable, "no_available_model"
	case errors.Is(err, ledger.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_failed"
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusTooManyRequests, "backpressure"
	}
	return http.StatusInternalServerError, "internal_error"
}
