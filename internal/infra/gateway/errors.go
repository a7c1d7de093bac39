// Package gateway holds the error types shared by the upstream API clients.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound is returned when the upstream API answers 404
var ErrNotFound = errors.New("resource not found upstream")

// RateLimitError is returned once 429 retries are exhausted
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
}

// IsRateLimitError checks if an error is (or wraps) a rate limit error
func IsRateLimitError(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// APIError is a non-success upstream response
type APIError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Upstream, e.StatusCode, body)
}

// IsClientError reports whether the upstream rejected the request itself
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}
