package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
	"github.com/RattMix/footy-on-today-mate/internal/usecase"
)

type Handler struct {
	matchdayService *usecase.MatchdayService
	prewarmService  *usecase.PrewarmService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchdayService *usecase.MatchdayService,
	prewarmService *usecase.PrewarmService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchdayService: matchdayService,
		prewarmService:  prewarmService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchesRequest struct {
	DateFrom string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"dateTo" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatches")
	defer span.End()

	var req matchesRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchdayService.GetMatches(ctx, req.DateFrom, req.DateTo)
	if err != nil {
		h.logger.WarnContext(ctx, "get matches failed", "date_from", req.DateFrom, "date_to", req.DateTo, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type refreshCacheRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=31"`
}

// RunRefreshCacheJob re-warms the fixture cache for the upcoming days. The
// request body is optional; an empty body refreshes the default window.
func (h *Handler) RunRefreshCacheJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshCacheJob")
	defer span.End()

	if h.prewarmService == nil {
		writeError(ctx, w, fmt.Errorf("%w: prewarm service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeRefreshCacheRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.prewarmService.Refresh(ctx, req.Days)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh cache job failed", "days", req.Days, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeRefreshCacheRequest(r *http.Request) (refreshCacheRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req refreshCacheRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return refreshCacheRequest{}, nil
		}
		return refreshCacheRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
