package model

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantCode  string
		retryable bool
	}{
		{"unauthorized status", 401, errors.New("denied"), CodeInvalidAPIKey, false},
		{"api key text", 0, errors.New("API key not valid. Please pass a valid API key."), CodeInvalidAPIKey, false},
		{"rate limit status", 429, errors.New("slow down"), CodeRateLimited, true},
		{"resource exhausted", 0, errors.New("rpc error: RESOURCE_EXHAUSTED"), CodeRateLimited, true},
		{"quota", 429, errors.New("You exceeded your current quota: insufficient_quota"), CodeQuotaExceeded, false},
		{"server status", 503, errors.New("unavailable"), CodeServerError, true},
		{"overloaded", 0, errors.New("overloaded_error"), CodeServerError, true},
		{"deadline", 0, fmt.Errorf("call: %w", context.DeadlineExceeded), CodeTimeout, true},
		{"network", 0, errors.New("dial tcp: connection refused"), CodeNetworkError, true},
		{"bad request", 400, errors.New("invalid model"), CodeAPIError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyError("test", tt.status, tt.err)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
			if apiErr.Retryable != tt.retryable {
				t.Errorf("expected retryable %v, got %v", tt.retryable, apiErr.Retryable)
			}
			if apiErr.Provider != "test" {
				t.Errorf("expected provider 'test', got %q", apiErr.Provider)
			}
			if !errors.Is(err, tt.err) {
				t.Error("expected wrapped error to be preserved")
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if err := ClassifyError("test", 500, nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		err := ClassifyError("test", 0, context.Canceled)
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
