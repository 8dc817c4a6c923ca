package clipserver

import (
	"context"

	"github.com/anatolykoptev/go_clip/internal/engine/clip"
)

// Runner is the pipeline surface the front ends call.
type Runner interface {
	Run(ctx context.Context, videoID, imageRef string) (clip.Result, error)
	Script(ctx context.Context, videoID string) (string, error)
}

// GenerateClipInput is the input for the generate_clip tool and POST /api/generate-clip.
type GenerateClipInput struct {
	VideoID        string `json:"videoId,omitempty" jsonschema:"YouTube video ID (1-20 chars). Either videoId or youtubeUrl is required"`
	YouTubeURL     string `json:"youtubeUrl,omitempty" jsonschema:"YouTube video URL, used when videoId is empty"`
	ImageReference string `json:"imageReference" jsonschema:"Absolute URL of the reference image"`
}

// GenerateClipOutput is the result of a successful generation.
type GenerateClipOutput struct {
	Result string `json:"result"`
	RunID  string `json:"runId"`
}

// ClipScriptInput is the input for the clip_script tool and POST /api/clip-script.
type ClipScriptInput struct {
	VideoID    string `json:"videoId,omitempty" jsonschema:"YouTube video ID (1-20 chars). Either videoId or youtubeUrl is required"`
	YouTubeURL string `json:"youtubeUrl,omitempty" jsonschema:"YouTube video URL, used when videoId is empty"`
}

// ClipScriptOutput is a drafted clip script.
type ClipScriptOutput struct {
	Script string `json:"script"`
}

type errorResponse struct {
	Error string `json:"error"`
}
