// Package toolutil provides helpers shared by the HTTP and MCP front ends.
package toolutil

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/engine/sources"
)

// ResolveVideoID prefers an explicit id; otherwise it extracts one from a YouTube URL.
// Returns "" when neither yields an id, which validation then rejects.
func ResolveVideoID(videoID, youtubeURL string) string {
	if id := strings.TrimSpace(videoID); id != "" {
		return id
	}
	return sources.ExtractVideoID(strings.TrimSpace(youtubeURL))
}

// ScriptMessage is the caller-visible text for a failed script request.
func ScriptMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrLLMUnavailable):
		return "Clip scripts are not configured"
	case engine.KindOf(err) == engine.KindInvalidFormat, errors.Is(err, engine.ErrFetch):
		return engine.UserMessage(err)
	}
	return "Failed to generate clip script"
}

// LogFailure records the full error chain of a failed request.
func LogFailure(op string, err error) {
	slog.Warn(op+" failed",
		slog.String("kind", string(engine.KindOf(err))),
		slog.String("error", engine.TruncateRunes(err.Error(), 500, "...")))
}
