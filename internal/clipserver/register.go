package clipserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/toolutil"
)

// RegisterTools registers generate_clip and clip_script on the given MCP server.
func RegisterTools(server *mcp.Server, r Runner) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_clip",
		Description: "Generate a clip from a YouTube video's transcript and a reference image. Fetches the captions, normalizes them to at most 4000 tokens and sends them with the image URL to the generation API. Limited to 10 generations per minute.",
	}, generateClipTool(r))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clip_script",
		Description: "Draft a short, engaging clip script (under 120 words) from a YouTube video's transcript using the configured LLM.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, clipScriptTool(r))
}

func generateClipTool(r Runner) mcp.ToolHandlerFor[GenerateClipInput, GenerateClipOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GenerateClipInput) (*mcp.CallToolResult, GenerateClipOutput, error) {
		videoID := toolutil.ResolveVideoID(input.VideoID, input.YouTubeURL)
		res, err := r.Run(ctx, videoID, input.ImageReference)
		if err != nil {
			toolutil.LogFailure("generate_clip", err)
			return nil, GenerateClipOutput{}, errors.New(engine.UserMessage(err))
		}
		return nil, GenerateClipOutput{Result: res.Content, RunID: res.RunID}, nil
	}
}

func clipScriptTool(r Runner) mcp.ToolHandlerFor[ClipScriptInput, ClipScriptOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClipScriptInput) (*mcp.CallToolResult, ClipScriptOutput, error) {
		script, err := r.Script(ctx, toolutil.ResolveVideoID(input.VideoID, input.YouTubeURL))
		if err != nil {
			toolutil.LogFailure("clip_script", err)
			return nil, ClipScriptOutput{}, errors.New(toolutil.ScriptMessage(err))
		}
		return nil, ClipScriptOutput{Script: script}, nil
	}
}
