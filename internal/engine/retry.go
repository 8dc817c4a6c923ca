package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // wait before retry i is BaseDelay*i
}

// DefaultRetryConfig is used for calls to the generation provider.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
}

// HTTPStatusError is an HTTP response with a non-success status.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// linearBackOff waits base, 2*base, 3*base, ...
type linearBackOff struct {
	base time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.base * time.Duration(b.n)
}

func (b *linearBackOff) Reset() { b.n = 0 }

// RetryDo calls fn up to rc.MaxAttempts times with linear backoff.
// Only server-class HTTP failures (status >= 500) are retried; any other error
// is returned after the first attempt. After the last attempt the last error
// is returned.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	attempts := rc.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	operation := func() (T, error) {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, wait time.Duration) {
		metrics.Retries.Add(1)
		slog.Debug("retrying", slog.Duration("wait", wait), slog.Any("error", err))
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(&linearBackOff{base: rc.BaseDelay}),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(notify),
	)
}

// RetryHTTP executes an HTTP request function with retry logic.
// Responses with status >= 400 are drained, closed and turned into *HTTPStatusError.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if err := StatusError(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
		return resp, nil
	})
}

// StatusError returns an *HTTPStatusError carrying up to 64 KiB of the body
// when resp has status >= 400, and nil otherwise. The body is left open.
func StatusError(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &HTTPStatusError{StatusCode: resp.StatusCode, Body: body}
}

// isRetryable reports whether err is a transient server failure.
func isRetryable(err error) bool {
	var httpErr *HTTPStatusError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
