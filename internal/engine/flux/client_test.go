package flux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

func testConfig(url string) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.FluxAPIURL = url
	cfg.FluxAPIKey = "flux-key"
	cfg.Retry = engine.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}
	return cfg
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer flux-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		body, _ := io.ReadAll(r.Body)
		if assert.NoError(t, json.Unmarshal(body, &req)) {
			assert.Equal(t, "Hello world", req.Transcript)
			assert.Equal(t, "https://x.com/a.png", req.ImageURL)
		}
		_, _ = io.WriteString(w, `{"generatedContent":"clip-ref-1"}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), engine.NewRateLimiter())
	got, err := c.Generate(context.Background(), "Hello world", "https://x.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "clip-ref-1", got)
}

func TestGenerateInvalidImageMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	limiter := engine.NewRateLimiter()
	c := NewClient(testConfig(srv.URL), limiter)
	_, err := c.Generate(context.Background(), "text", "not a url")
	assert.ErrorIs(t, err, engine.ErrInvalidFormat)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, limiter.Count(RateLimitKey), "quota untouched")
}

func TestGenerateClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid key"}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), engine.NewRateLimiter())
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")

	var e *engine.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, engine.KindRemote, e.Kind)
	assert.Equal(t, http.StatusUnauthorized, e.Status)
	assert.Equal(t, "invalid key", e.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"generatedContent":"third time"}`)
	}))
	defer srv.Close()

	limiter := engine.NewRateLimiter()
	c := NewClient(testConfig(srv.URL), limiter)
	got, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "third time", got)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 1, limiter.Count(RateLimitKey), "retries do not consume quota")
}

func TestGenerateServerErrorExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `upstream busy`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), engine.NewRateLimiter())
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")

	var e *engine.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, engine.KindRemote, e.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, e.Status)
	assert.Equal(t, "Unknown error", e.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"generatedContent":"ok"}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GenerationLimit = 2
	cfg.GenerationWindow = time.Hour
	c := NewClient(cfg, engine.NewRateLimiter())

	for i := 0; i < 2; i++ {
		_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
		require.NoError(t, err)
	}
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	assert.ErrorIs(t, err, engine.ErrRateLimitExceeded)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(testConfig(url), engine.NewRateLimiter())
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	assert.ErrorIs(t, err, engine.ErrNoResponse)
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"generatedContent":""}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), engine.NewRateLimiter())
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	assert.ErrorIs(t, err, engine.ErrUnknown)
}

func TestGenerateRequestSetup(t *testing.T) {
	c := NewClient(testConfig("://bad"), engine.NewRateLimiter())
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	assert.ErrorIs(t, err, engine.ErrRequestSetup)
}

func TestGenerateTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			_, _ = io.WriteString(w, `{"generatedContent":"too late"}`)
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.GenerationTimeout = 50 * time.Millisecond
	c := NewClient(cfg, engine.NewRateLimiter())

	start := time.Now()
	_, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	assert.ErrorIs(t, err, engine.ErrNoResponse)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), calls.Load(), "timeouts are not retried")
}

func TestGenerateOutlastsSharedClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = io.WriteString(w, `{"generatedContent":"slow but fine"}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.HTTPClient = &http.Client{Timeout: 20 * time.Millisecond}
	cfg.GenerationTimeout = 2 * time.Second
	c := NewClient(cfg, engine.NewRateLimiter())

	got, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "slow but fine", got)
}

func TestGenerateTimeoutPerAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"generatedContent":"second attempt"}`)
	}))
	defer srv.Close()

	// The first attempt and the backoff together outlast one timeout.
	cfg := testConfig(srv.URL)
	cfg.GenerationTimeout = 300 * time.Millisecond
	cfg.Retry = engine.RetryConfig{MaxAttempts: 2, BaseDelay: 200 * time.Millisecond}
	c := NewClient(cfg, engine.NewRateLimiter())

	got, err := c.Generate(context.Background(), "text", "https://x.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "second attempt", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClassify(t *testing.T) {
	setup := engine.NewError(engine.KindRequestSetup, "build request", errors.New("bad url"))
	assert.Same(t, setup, classify(setup))
	assert.ErrorIs(t, classify(fmt.Errorf("wrapped: %w", setup)), engine.ErrRequestSetup)

	var e *engine.Error
	require.ErrorAs(t, classify(&engine.HTTPStatusError{StatusCode: 502}), &e)
	assert.Equal(t, engine.KindRemote, e.Kind)
	assert.Equal(t, 502, e.Status)

	assert.ErrorIs(t, classify(context.DeadlineExceeded), engine.ErrNoResponse)
}

func TestRemoteMessage(t *testing.T) {
	assert.Equal(t, "quota", remoteMessage([]byte(`{"error":"quota"}`)))
	assert.Equal(t, "Unknown error", remoteMessage([]byte(`{"error":""}`)))
	assert.Equal(t, "Unknown error", remoteMessage([]byte(`<html>`)))
	assert.Equal(t, "Unknown error", remoteMessage(nil))
}
