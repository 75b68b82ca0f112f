package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes reported in APIError.Code.
const (
	CodeInvalidAPIKey = "invalid_api_key"
	CodeRateLimited   = "rate_limited"
	CodeQuotaExceeded = "quota_exceeded"
	CodeTimeout       = "timeout"
	CodeServerError   = "server_error"
	CodeNetworkError  = "network_error"
	CodeAPIError      = "api_error"
)

// ErrMissingAPIKey is returned by adapters constructed without a key.
var ErrMissingAPIKey = errors.New("API key is required")

// APIError is a classified provider failure.
//
// Retryable is informational; nothing in this module retries.
type APIError struct {
	Provider  string
	Code      string
	Message   string
	Retryable bool

	// StatusCode is the HTTP status when known, otherwise zero.
	StatusCode int

	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying provider error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyError maps a provider error to an *APIError.
//
// status is the HTTP status extracted from the SDK error, or zero when the
// SDK did not report one; the error text is inspected in that case.
// Context cancellation is returned unchanged.
func ClassifyError(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	apiErr := &APIError{
		Provider:   provider,
		StatusCode: status,
		Message:    err.Error(),
		Err:        err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		apiErr.Code = CodeTimeout
		apiErr.Retryable = true
		return apiErr
	}

	lower := strings.ToLower(err.Error())

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		containsAny(lower, "invalid api key", "incorrect api key", "api key not valid", "invalid_api_key", "unauthorized", "authentication"):
		apiErr.Code = CodeInvalidAPIKey

	case containsAny(lower, "insufficient_quota", "quota exceeded", "billing"):
		apiErr.Code = CodeQuotaExceeded

	case status == http.StatusTooManyRequests ||
		containsAny(lower, "rate limit", "too many requests", "resource_exhausted"):
		apiErr.Code = CodeRateLimited
		apiErr.Retryable = true

	case status >= 500 ||
		containsAny(lower, "internal server error", "bad gateway", "service unavailable", "gateway timeout", "overloaded"):
		apiErr.Code = CodeServerError
		apiErr.Retryable = true

	case status == 0 && containsAny(lower, "connection", "timeout", "network", "no such host"):
		apiErr.Code = CodeNetworkError
		apiErr.Retryable = true

	default:
		apiErr.Code = CodeAPIError
	}

	return apiErr
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
