package clipserver

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/engine/clip"
)

func TestGenerateClipTool(t *testing.T) {
	r := &fakeRunner{result: clip.Result{Content: "clip-ref-1", RunID: "run-1"}}
	_, out, err := generateClipTool(r)(context.Background(), nil, GenerateClipInput{
		YouTubeURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		ImageReference: "https://x.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, GenerateClipOutput{Result: "clip-ref-1", RunID: "run-1"}, out)
	assert.Equal(t, "dQw4w9WgXcQ", r.gotID)
}

func TestGenerateClipToolHidesCause(t *testing.T) {
	r := &fakeRunner{err: engine.NewError(engine.KindNoResponse, "", errors.New("dial tcp 10.0.0.1"))}
	_, _, err := generateClipTool(r)(context.Background(), nil, GenerateClipInput{VideoID: "abc123"})
	require.Error(t, err)
	assert.Equal(t, "No response received from generation API", err.Error())
}

func TestClipScriptTool(t *testing.T) {
	_, out, err := clipScriptTool(&fakeRunner{script: "Hook"})(context.Background(), nil, ClipScriptInput{VideoID: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "Hook", out.Script)

	_, _, err = clipScriptTool(&fakeRunner{err: engine.ErrLLMUnavailable})(context.Background(), nil, ClipScriptInput{VideoID: "abc123"})
	assert.EqualError(t, err, "Clip scripts are not configured")
}

func TestRegisterToolsOverMCP(t *testing.T) {
	ctx := context.Background()
	server := mcp.NewServer(&mcp.Implementation{Name: "go_clip", Version: "test"}, nil)
	RegisterTools(server, &fakeRunner{result: clip.Result{Content: "clip-ref-1", RunID: "run-1"}})

	clientT, serverT := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"generate_clip", "clip_script"}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "generate_clip",
		Arguments: map[string]any{"videoId": "abc123", "imageReference": "https://x.com/a.png"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "clip-ref-1")
}
