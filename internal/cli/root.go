// Package cli implements the clipctl command line.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_clip/internal/clipserver"
	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/engine/clip"
	"github.com/anatolykoptev/go_clip/internal/engine/sources"
)

var (
	version = "dev"

	// Services are wired by Execute; tests replace them.
	runner    clipserver.Runner
	fetcher   sources.Fetcher
	maxTokens = engine.DefaultMaxTokens
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "Generate clips from YouTube transcripts",
	Long: `clipctl fetches a YouTube video's transcript, normalizes it and sends it
with a reference image to the clip generation API.

Configuration is read from the same environment variables as the server
(FLUX_API_KEY, FLUX_API_URL, OPENAI_API_KEY, LLM_API_KEY, ...).`,
	SilenceUsage: true,
}

// Execute wires the pipeline from the environment and runs the root command.
func Execute(v string) error {
	version = v
	cfg := engine.ConfigFromEnv()
	configErr = cfg.Validate()
	fetcher = clip.NewFetcher(cfg)
	runner = clip.NewFromConfig(cfg, engine.NewRateLimiter())
	maxTokens = cfg.MaxTranscriptTokens
	return rootCmd.Execute()
}

// videoArg accepts either a bare id or any YouTube URL form.
func videoArg(s string) string {
	if id := sources.ExtractVideoID(s); id != "" {
		return id
	}
	return s
}

// userError keeps the classified message and drops internal causes.
func userError(err error) error {
	return errors.New(engine.UserMessage(err))
}
