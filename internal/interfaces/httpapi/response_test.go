package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/RattMix/footy-on-today-mate/internal/usecase"
)

func TestWriteError_FlatShape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["error"].(string); got == "" {
		t.Fatalf("expected error string, got %v", body["error"])
	}
	matches, ok := body["matches"].([]any)
	if !ok || len(matches) != 0 {
		t.Fatalf("expected empty matches array, got %v", body["matches"])
	}
	if got, _ := body["count"].(float64); got != 0 {
		t.Fatalf("expected count 0, got %v", body["count"])
	}
	if _, ok := body["message"].(string); !ok {
		t.Fatalf("expected message string, got %v", body["message"])
	}
}

func TestWriteError_DependencyUnavailableIsServerFault(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: no fixture source is configured", usecase.ErrDependencyUnavailable))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestWriteError_UnauthorizedStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: invalid internal job token", usecase.ErrUnauthorized))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestWriteSuccess_PassesPayloadThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["status"].(string); got != "ok" {
		t.Fatalf("expected status=ok, got %v", body["status"])
	}
}
