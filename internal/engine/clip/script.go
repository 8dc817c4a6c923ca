package clip

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

// Script fetches the transcript of videoID and drafts a short clip script from it.
// Returns engine.ErrLLMUnavailable when no script writer is configured.
func (p *Pipeline) Script(ctx context.Context, videoID string) (string, error) {
	if p.scripts == nil {
		return "", engine.ErrLLMUnavailable
	}
	id, err := engine.ValidateVideoID(videoID)
	if err != nil {
		return "", err
	}
	transcript, err := p.transcript(ctx, id)
	if err != nil {
		return "", err
	}
	script, err := p.scripts.WriteScript(ctx, transcript)
	if err != nil {
		slog.Warn("clip: script failed", slog.String("video_id", id), slog.Any("error", err))
		return "", err
	}
	return script, nil
}
