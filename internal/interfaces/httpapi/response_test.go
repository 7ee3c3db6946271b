package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["success"].(bool); !got {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["success"].(bool); got {
		t.Fatalf("expected success=false")
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "rate limit", err: fmt.Errorf("%w: quota spent", usecase.ErrRateLimitExceeded), want: http.StatusTooManyRequests},
		{name: "breaker open", err: fmt.Errorf("%w: %w: open", usecase.ErrDataFetch, usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable},
		{name: "fetch", err: fmt.Errorf("%w: provider down", usecase.ErrDataFetch), want: http.StatusBadGateway},
		{name: "parse", err: fmt.Errorf("%w: bad envelope", usecase.ErrDataParsing), want: http.StatusBadGateway},
		{name: "resource not found", err: fmt.Errorf("%w: league 39", usecase.ErrResourceNotFound), want: http.StatusNotFound},
		{name: "not found", err: usecase.ErrNotFound, want: http.StatusNotFound},
		{name: "invalid input", err: usecase.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "unauthorized", err: usecase.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "duplicate", err: usecase.ErrDuplicateResource, want: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mapError(context.Background(), tt.err).HTTPStatus; got != tt.want {
				t.Fatalf("mapError(%v)=%d want=%d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError_RetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Now()
	exceeded := &ratelimit.ExceededError{Key: "rate_limit:api_football", Limit: 100, Window: time.Hour, ResetAt: now.Add(90 * time.Second)}
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: %w", usecase.ErrRateLimitExceeded, exceeded))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "90" && got != "89" {
		t.Fatalf("unexpected Retry-After %q", got)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "provider throttle without reset", err: usecase.ErrRateLimitExceeded, want: 60},
		{name: "reset in future", err: &ratelimit.ExceededError{ResetAt: now.Add(1500 * time.Millisecond)}, want: 2},
		{name: "reset passed", err: &ratelimit.ExceededError{ResetAt: now.Add(-time.Second)}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := retryAfterSeconds(tt.err, now); got != tt.want {
				t.Fatalf("retryAfterSeconds=%d want=%d", got, tt.want)
			}
		})
	}
}
