// Package flux calls the remote clip-generation endpoint.
package flux

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

// RateLimitKey is the limiter key shared by all generation calls.
const RateLimitKey = "generation"

const maxResponseBytes = 1 << 20

type generateRequest struct {
	Transcript string `json:"transcript"`
	ImageURL   string `json:"imageUrl"`
}

type generateResponse struct {
	GeneratedContent string `json:"generatedContent"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client sends transcript + image reference pairs to the generation API.
type Client struct {
	url     string
	apiKey  string
	timeout time.Duration
	limit   int
	window  time.Duration
	retry   engine.RetryConfig
	limiter *engine.RateLimiter
	client  *http.Client
}

// NewClient creates a generation client. The limiter is shared with any other
// client that must count against the same quota.
func NewClient(cfg engine.Config, limiter *engine.RateLimiter) *Client {
	c := &Client{
		url:     cfg.FluxAPIURL,
		apiKey:  cfg.FluxAPIKey,
		timeout: cfg.GenerationTimeout,
		limit:   cfg.GenerationLimit,
		window:  cfg.GenerationWindow,
		retry:   cfg.Retry,
		limiter: limiter,
		client:  &http.Client{},
	}
	// Attempts are bounded by c.timeout, not the shared client's Timeout.
	if cfg.HTTPClient != nil {
		c.client.Transport = cfg.HTTPClient.Transport
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.limiter == nil {
		c.limiter = engine.NewRateLimiter()
	}
	return c
}

// Generate validates imageRef, takes one slot of the generation quota and posts
// the request, retrying server failures. Every failure is an *engine.Error.
func (c *Client) Generate(ctx context.Context, transcript, imageRef string) (string, error) {
	engine.IncrGeneration()
	out, err := c.generate(ctx, transcript, imageRef)
	if err != nil {
		engine.IncrGenerationError()
		return "", err
	}
	return out, nil
}

func (c *Client) generate(ctx context.Context, transcript, imageRef string) (string, error) {
	if _, err := engine.ValidateImageRef(imageRef); err != nil {
		return "", err
	}
	if err := c.limiter.Allow(RateLimitKey, c.limit, c.window); err != nil {
		return "", err
	}

	payload, err := json.Marshal(generateRequest{Transcript: transcript, ImageURL: imageRef})
	if err != nil {
		return "", engine.NewError(engine.KindRequestSetup, "encode request", err)
	}

	start := time.Now()
	content, err := engine.RetryDo(ctx, c.retry, func() (string, error) {
		return c.attempt(ctx, payload)
	})
	if err != nil {
		return "", classify(err)
	}

	slog.Debug("flux: generated",
		slog.Int("chars", len(content)), slog.Duration("elapsed", time.Since(start)))
	return content, nil
}

// attempt performs one POST, bounded by the generation timeout on its own.
func (c *Client) attempt(ctx context.Context, payload []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", engine.NewError(engine.KindRequestSetup, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := engine.StatusError(resp); err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", engine.NewError(engine.KindUnknown, "decode response", err)
	}
	if out.GeneratedContent == "" {
		return "", engine.NewError(engine.KindUnknown, "empty generatedContent", nil)
	}
	return out.GeneratedContent, nil
}

// classify turns a failed round trip into a remote or no-response error.
// Errors already classified by the attempt pass through.
func classify(err error) error {
	var ee *engine.Error
	if errors.As(err, &ee) {
		return ee
	}
	var se *engine.HTTPStatusError
	if errors.As(err, &se) {
		return &engine.Error{
			Kind:    engine.KindRemote,
			Status:  se.StatusCode,
			Message: remoteMessage(se.Body),
			Err:     err,
		}
	}
	return engine.NewError(engine.KindNoResponse, "", fmt.Errorf("generation request: %w", err))
}

// remoteMessage extracts the provider's "error" field, defaulting to "Unknown error".
func remoteMessage(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return "Unknown error"
}
