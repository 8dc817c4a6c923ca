package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PipelineRuns         atomic.Int64
	PipelineErrors       atomic.Int64
	TranscriptRequests   atomic.Int64
	TranscriptErrors     atomic.Int64
	SpeechTranscriptions atomic.Int64
	GenerationRequests   atomic.Int64
	GenerationErrors     atomic.Int64
	Retries              atomic.Int64
	RateLimited          atomic.Int64
	LLMCalls             atomic.Int64
	LLMErrors            atomic.Int64
}

// metricKeys fixes the exposition order.
var metricKeys = []string{
	"pipeline_runs", "pipeline_errors",
	"transcript_requests", "transcript_errors", "speech_transcriptions",
	"generation_requests", "generation_errors", "retries", "rate_limited",
	"llm_calls", "llm_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"pipeline_runs":         metrics.PipelineRuns.Load(),
		"pipeline_errors":       metrics.PipelineErrors.Load(),
		"transcript_requests":   metrics.TranscriptRequests.Load(),
		"transcript_errors":     metrics.TranscriptErrors.Load(),
		"speech_transcriptions": metrics.SpeechTranscriptions.Load(),
		"generation_requests":   metrics.GenerationRequests.Load(),
		"generation_errors":     metrics.GenerationErrors.Load(),
		"retries":               metrics.Retries.Load(),
		"rate_limited":          metrics.RateLimited.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrPipelineRun()         { metrics.PipelineRuns.Add(1) }
func IncrPipelineError()       { metrics.PipelineErrors.Add(1) }
func IncrTranscript()          { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptError()     { metrics.TranscriptErrors.Add(1) }
func IncrSpeechTranscription() { metrics.SpeechTranscriptions.Add(1) }
func IncrGeneration()          { metrics.GenerationRequests.Add(1) }
func IncrGenerationError()     { metrics.GenerationErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 20*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
