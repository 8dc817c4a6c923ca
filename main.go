// go_clip: YouTube transcript to clip generation server.
//
// Exposes POST /api/generate-clip and POST /api/clip-script over plain HTTP,
// and the same operations as MCP tools (generate_clip, clip_script).
// FLUX_API_KEY is required; the process exits without it.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_clip/internal/clipserver"
	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/engine/clip"
)

var (
	version  = "dev"
	mcpPort  = env.Str("MCP_PORT", "8893")
	httpPort = env.Str("HTTP_PORT", "8894")
)

func main() {
	initLogging(env.Str("LOG_LEVEL", "info"))

	cfg := engine.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	pipeline := clip.NewFromConfig(cfg, engine.NewRateLimiter())

	slog.Info("starting go_clip",
		slog.String("mcp_port", mcpPort),
		slog.String("http_port", httpPort),
		slog.Int("generation_limit", cfg.GenerationLimit),
		slog.Duration("generation_window", cfg.GenerationWindow),
		slog.Bool("speech_fallback", cfg.OpenAIAPIKey != ""),
		slog.Bool("clip_scripts", cfg.LLMAPIKey != ""),
	)

	go serveHTTP(pipeline)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_clip",
		Version: version,
	}, nil)
	clipserver.RegisterTools(server, pipeline)
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_clip",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveHTTP(r clipserver.Runner) {
	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           clipserver.NewHandler(r),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func initLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
