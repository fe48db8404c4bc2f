package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/usecase"
)

// errorResponse keeps the same field layout as the success payload so
// clients can always read matches/count/message regardless of outcome.
type errorResponse struct {
	Error   string          `json:"error"`
	Matches []match.Fixture `json:"matches"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, data)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	writeJSON(ctx, w, mapErrorStatus(ctx, err), errorResponse{
		Error:   err.Error(),
		Matches: []match.Fixture{},
		Count:   0,
		Message: "❌ Failed to fetch match data",
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
		Error:   "internal server error",
		Matches: []match.Fixture{},
		Count:   0,
		Message: "❌ Failed to fetch match data",
	})
}

func mapErrorStatus(ctx context.Context, err error) int {
	_, span := startSpan(ctx, "httpapi.mapErrorStatus")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		// Missing upstream credentials or sources count as a server side
		// misconfiguration, not a client fault.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
