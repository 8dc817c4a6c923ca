package clip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

func TestNewFetcher(t *testing.T) {
	cfg := engine.DefaultConfig()
	assert.Len(t, NewFetcher(cfg), 1, "captions only without an OpenAI key")

	cfg.OpenAIAPIKey = "sk-test"
	assert.Len(t, NewFetcher(cfg), 2)
}

func TestNewFromConfigWithoutLLM(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.FluxAPIKey = "k"
	p := NewFromConfig(cfg, engine.NewRateLimiter())

	assert.Nil(t, p.scripts)
	assert.Equal(t, engine.DefaultMaxTokens, p.maxTokens)
	_, err := p.Script(context.Background(), "abc123")
	assert.ErrorIs(t, err, engine.ErrLLMUnavailable)
}
