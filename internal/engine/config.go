package engine

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FluxAPIURL          string
	FluxAPIKey          string // required
	GenerationTimeout   time.Duration
	GenerationLimit     int
	GenerationWindow    time.Duration
	MaxTranscriptTokens int
	Retry               RetryConfig
	TranscriptLangs     []string
	YouTubeRPS          float64 // pacing for outbound YouTube requests
	OpenAIAPIKey        string  // empty = speech-to-text fallback disabled
	WhisperModel        string
	LLMAPIKey           string // empty = clip scripts disabled
	LLMAPIKeyFallbacks  []string
	LLMAPIBase          string
	LLMModel            string
	LLMTemperature      float64
	LLMMaxTokens        int
	HTTPClient          *http.Client
}

// DefaultConfig returns the values used when the environment sets nothing.
func DefaultConfig() Config {
	return Config{
		FluxAPIURL:          "https://api.flux.ai/generate",
		GenerationTimeout:   30 * time.Second,
		GenerationLimit:     10,
		GenerationWindow:    time.Minute,
		MaxTranscriptTokens: DefaultMaxTokens,
		Retry:               DefaultRetryConfig,
		TranscriptLangs:     []string{"en"},
		YouTubeRPS:          2,
		WhisperModel:        "whisper-1",
		LLMAPIBase:          "https://api.openai.com/v1",
		LLMModel:            "gpt-3.5-turbo",
		LLMTemperature:      0.7,
		LLMMaxTokens:        150,
		HTTPClient:          &http.Client{Timeout: 15 * time.Second},
	}
}

// Validate reports startup-time configuration faults.
func (c Config) Validate() error {
	if c.FluxAPIKey == "" {
		return fmt.Errorf("FLUX_API_KEY: %w", ErrMissingAPIKey)
	}
	if c.GenerationLimit <= 0 {
		return fmt.Errorf("generation limit must be positive, got %d", c.GenerationLimit)
	}
	if c.GenerationWindow <= 0 {
		return fmt.Errorf("generation window must be positive, got %s", c.GenerationWindow)
	}
	return nil
}

// ConfigFromEnv overlays environment variables on DefaultConfig.
func ConfigFromEnv() Config {
	d := DefaultConfig()
	return Config{
		FluxAPIURL:          env.Str("FLUX_API_URL", d.FluxAPIURL),
		FluxAPIKey:          env.Str("FLUX_API_KEY", ""),
		GenerationTimeout:   env.Duration("GENERATION_TIMEOUT", d.GenerationTimeout),
		GenerationLimit:     env.Int("GENERATION_LIMIT", d.GenerationLimit),
		GenerationWindow:    env.Duration("GENERATION_WINDOW", d.GenerationWindow),
		MaxTranscriptTokens: env.Int("MAX_TRANSCRIPT_TOKENS", d.MaxTranscriptTokens),
		Retry: RetryConfig{
			MaxAttempts: env.Int("RETRY_ATTEMPTS", d.Retry.MaxAttempts),
			BaseDelay:   env.Duration("RETRY_BASE_DELAY", d.Retry.BaseDelay),
		},
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en"),
		YouTubeRPS:         env.Float("YOUTUBE_RPS", d.YouTubeRPS),
		OpenAIAPIKey:       env.Str("OPENAI_API_KEY", ""),
		WhisperModel:       env.Str("WHISPER_MODEL", d.WhisperModel),
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", d.LLMAPIBase),
		LLMModel:           env.Str("LLM_MODEL", d.LLMModel),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", d.LLMTemperature),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", d.LLMMaxTokens),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}
