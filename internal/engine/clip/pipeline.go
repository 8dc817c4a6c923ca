// Package clip sequences transcript fetching, normalization and clip generation.
package clip

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

// TranscriptFetcher returns the transcript text of a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// Generator turns a normalized transcript and an image reference into a clip.
type Generator interface {
	Generate(ctx context.Context, transcript, imageRef string) (string, error)
}

// ScriptWriter drafts a clip script from a normalized transcript.
type ScriptWriter interface {
	WriteScript(ctx context.Context, transcript string) (string, error)
}

// Deps wires a Pipeline. Scripts may be nil.
type Deps struct {
	Fetcher   TranscriptFetcher
	Generator Generator
	Scripts   ScriptWriter
	MaxTokens int // <= 0 = engine.DefaultMaxTokens
}

// Pipeline runs one clip request at a time per call; calls may run concurrently.
type Pipeline struct {
	fetcher   TranscriptFetcher
	gen       Generator
	scripts   ScriptWriter
	maxTokens int
}

// Result is the outcome of a successful run.
type Result struct {
	Content  string
	RunID    string
	Tokens   int
	Duration time.Duration
}

// New creates a Pipeline.
func New(d Deps) *Pipeline {
	p := &Pipeline{
		fetcher:   d.Fetcher,
		gen:       d.Generator,
		scripts:   d.Scripts,
		maxTokens: d.MaxTokens,
	}
	if p.maxTokens <= 0 {
		p.maxTokens = engine.DefaultMaxTokens
	}
	return p
}

// Run validates the inputs, fetches and normalizes the transcript and generates
// the clip. The first failing step ends the run; its error is an *engine.Error.
func (p *Pipeline) Run(ctx context.Context, videoID, imageRef string) (Result, error) {
	engine.IncrPipelineRun()
	res := Result{RunID: uuid.NewString()}
	start := time.Now()

	content, tokens, err := p.run(ctx, videoID, imageRef)
	res.Duration = time.Since(start)
	if err != nil {
		engine.IncrPipelineError()
		slog.Error("clip: run failed",
			slog.String("run_id", res.RunID), slog.String("video_id", videoID),
			slog.String("kind", string(engine.KindOf(err))), slog.Any("error", err))
		return res, err
	}

	res.Content = content
	res.Tokens = tokens
	slog.Info("clip: run complete",
		slog.String("run_id", res.RunID), slog.String("video_id", videoID),
		slog.Int("tokens", tokens), slog.Duration("elapsed", res.Duration))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, videoID, imageRef string) (string, int, error) {
	id, err := engine.ValidateVideoID(videoID)
	if err != nil {
		return "", 0, err
	}
	if _, err := engine.ValidateImageRef(imageRef); err != nil {
		return "", 0, err
	}

	transcript, err := p.transcript(ctx, id)
	if err != nil {
		return "", 0, err
	}
	tokens := engine.CountTokens(transcript)

	var content string
	err = engine.TrackOperation(ctx, "generate", func(ctx context.Context) error {
		var genErr error
		content, genErr = p.gen.Generate(ctx, transcript, imageRef)
		return genErr
	})
	if err != nil {
		return "", 0, classified(err, engine.KindUnknown)
	}
	return content, tokens, nil
}

// transcript fetches and normalizes the transcript of an already validated id.
func (p *Pipeline) transcript(ctx context.Context, videoID string) (string, error) {
	var raw string
	err := engine.TrackOperation(ctx, "fetch_transcript", func(ctx context.Context) error {
		var fetchErr error
		raw, fetchErr = p.fetcher.FetchTranscript(ctx, videoID)
		return fetchErr
	})
	if err != nil {
		return "", classified(err, engine.KindFetch)
	}
	return engine.Normalize(raw, p.maxTokens), nil
}

// classified keeps an existing classification and wraps anything else as kind.
func classified(err error, kind engine.ErrorKind) error {
	var e *engine.Error
	if errors.As(err, &e) {
		return err
	}
	return engine.NewError(kind, "", err)
}
