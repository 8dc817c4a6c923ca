package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// CompleteFunc sends one system+user prompt and returns the completion text.
type CompleteFunc func(ctx context.Context, system, prompt string) (string, error)

// ScriptWriter turns a normalized transcript into a short clip script.
type ScriptWriter struct {
	complete CompleteFunc
}

// NewScriptWriter builds a writer on an OpenAI-compatible endpoint.
// Returns nil when no LLM key is configured.
func NewScriptWriter(c Config) *ScriptWriter {
	if c.LLMAPIKey == "" {
		return nil
	}
	client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	return &ScriptWriter{complete: func(ctx context.Context, system, prompt string) (string, error) {
		return client.Complete(ctx, system, prompt)
	}}
}

// NewScriptWriterFunc wraps an arbitrary completion function.
func NewScriptWriterFunc(fn CompleteFunc) *ScriptWriter {
	return &ScriptWriter{complete: fn}
}

// WriteScript asks the LLM for a clip script based on transcript.
func (w *ScriptWriter) WriteScript(ctx context.Context, transcript string) (string, error) {
	if w == nil || w.complete == nil {
		return "", ErrLLMUnavailable
	}
	metrics.LLMCalls.Add(1)
	raw, err := w.complete(ctx, clipScriptSystem, fmt.Sprintf(clipScriptPrompt, transcript))
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("clip script: %w", err)
	}
	script := stripFences(raw)
	if script == "" {
		metrics.LLMErrors.Add(1)
		return "", errors.New("clip script: empty completion")
	}
	return script, nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
