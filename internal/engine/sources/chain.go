package sources

import (
	"context"
	"errors"
	"log/slog"
)

// Fetcher returns the transcript text of a video.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// Chain tries each fetcher in order and returns the first non-empty transcript.
type Chain []Fetcher

// FetchTranscript implements Fetcher. When every fetcher fails the last error is returned.
func (c Chain) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	lastErr := ErrNoTranscript
	for i, f := range c {
		text, err := f.FetchTranscript(ctx, videoID)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = ErrNoTranscript
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		slog.Warn("transcript fetcher failed",
			slog.Int("fetcher", i), slog.String("id", videoID), slog.Any("error", err))
		lastErr = err
	}
	return "", lastErr
}
