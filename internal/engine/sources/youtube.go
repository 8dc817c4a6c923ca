package sources

// YouTube implementation is split across files by responsibility:
//   youtube.go            the YouTube fetcher type, configuration and URL helpers
//   youtube_innertube.go  Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go transcript strategies (watch page, engagement panel, ANDROID player)

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

// ErrNoTranscript is returned when no strategy produced any caption text.
var ErrNoTranscript = errors.New("no transcript available")

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format.
// Returns "" when rawURL is not a recognizable YouTube link.
func ExtractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// YouTubeConfig configures the caption fetcher.
type YouTubeConfig struct {
	HTTPClient *http.Client
	Langs      []string           // preferred caption languages, in order
	RPS        float64            // outbound request pacing; <= 0 disables
	Retry      engine.RetryConfig // applied to every outbound request
	BaseURL    string             // default https://www.youtube.com
}

// YouTube fetches captions for a video through public YouTube endpoints.
type YouTube struct {
	client  *http.Client
	limiter *rate.Limiter
	langs   []string
	retry   engine.RetryConfig
	baseURL string
}

// NewYouTube creates a caption fetcher.
func NewYouTube(cfg YouTubeConfig) *YouTube {
	y := &YouTube{
		client:  cfg.HTTPClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		langs:   cfg.Langs,
		retry:   cfg.Retry,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
	if y.client == nil {
		y.client = http.DefaultClient
	}
	if cfg.RPS > 0 {
		y.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	if len(y.langs) == 0 {
		y.langs = []string{"en"}
	}
	if y.retry.MaxAttempts == 0 {
		y.retry = engine.DefaultRetryConfig
	}
	if y.baseURL == "" {
		y.baseURL = ytBaseURL
	}
	return y
}

// FetchTranscript fetches the transcript for a YouTube video and joins the
// caption fragments with single spaces, in provider order.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// Fallback: engagement panel /next → /get_transcript (requires valid session)
// Fallback: ANDROID Innertube /player → captionTracks
func (y *YouTube) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	engine.IncrTranscript()

	strategies := []struct {
		name string
		fn   func(context.Context, string) ([]string, error)
	}{
		{"page scrape", y.fragmentsViaPageScrape},
		{"engagement panel", y.fragmentsViaEngagementPanel},
		{"player", y.fragmentsViaPlayer},
	}

	var lastErr error
	for _, s := range strategies {
		frags, err := s.fn(ctx, videoID)
		if err == nil && len(frags) > 0 {
			return strings.Join(frags, " "), nil
		}
		if err == nil {
			err = ErrNoTranscript
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Warn("youtube: transcript strategy failed",
			slog.String("strategy", s.name), slog.String("id", videoID), slog.Any("error", err))
		lastErr = err
	}
	engine.IncrTranscriptError()
	return "", fmt.Errorf("youtube %s: %w", videoID, lastErr)
}

// do paces and retries one outbound request built by build.
func (y *YouTube) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	return engine.RetryHTTP(ctx, y.retry, func() (*http.Response, error) {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := build()
		if err != nil {
			return nil, err
		}
		return y.client.Do(req)
	})
}
