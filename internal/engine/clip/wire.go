package clip

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/engine/flux"
	"github.com/anatolykoptev/go_clip/internal/engine/sources"
)

// NewFetcher returns the caption fetcher, followed by the speech-to-text
// fetcher when an OpenAI key is configured.
func NewFetcher(cfg engine.Config) sources.Chain {
	chain := sources.Chain{sources.NewYouTube(sources.YouTubeConfig{
		HTTPClient: cfg.HTTPClient,
		Langs:      cfg.TranscriptLangs,
		RPS:        cfg.YouTubeRPS,
		Retry:      cfg.Retry,
	})}
	if speech := sources.NewSpeech(sources.SpeechConfig{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.WhisperModel,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}); speech != nil {
		chain = append(chain, speech)
	}
	return chain
}

// NewFromConfig wires the production fetchers, generation client and optional
// script writer. The limiter is shared by every pipeline built with it.
func NewFromConfig(cfg engine.Config, limiter *engine.RateLimiter) *Pipeline {
	d := Deps{
		Fetcher:   NewFetcher(cfg),
		Generator: flux.NewClient(cfg, limiter),
		MaxTokens: cfg.MaxTranscriptTokens,
	}
	if w := engine.NewScriptWriter(cfg); w != nil {
		d.Scripts = w
	}
	return New(d)
}
