package clip

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

func TestScript(t *testing.T) {
	var gotPrompt string
	writer := engine.NewScriptWriterFunc(func(_ context.Context, _, prompt string) (string, error) {
		gotPrompt = prompt
		return "```\nHook: hello\n```", nil
	})
	fetcher := &fakeFetcher{fragments: []string{"Hello", "<world>"}}
	p := New(Deps{Fetcher: fetcher, Generator: &fakeGenerator{}, Scripts: writer})

	got, err := p.Script(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Hook: hello", got)
	assert.Contains(t, gotPrompt, "Hello world")
}

func TestScriptWithoutWriter(t *testing.T) {
	fetcher := &fakeFetcher{fragments: []string{"hi"}}
	p := New(Deps{Fetcher: fetcher, Generator: &fakeGenerator{}})

	_, err := p.Script(context.Background(), "abc123")
	assert.ErrorIs(t, err, engine.ErrLLMUnavailable)
	assert.Equal(t, 0, fetcher.calls)
}

func TestScriptFetchFailure(t *testing.T) {
	writer := engine.NewScriptWriterFunc(func(context.Context, string, string) (string, error) {
		return "unused", nil
	})
	p := New(Deps{Fetcher: &fakeFetcher{err: errors.New("gone")}, Generator: &fakeGenerator{}, Scripts: writer})

	_, err := p.Script(context.Background(), "abc123")
	assert.ErrorIs(t, err, engine.ErrFetch)
}
