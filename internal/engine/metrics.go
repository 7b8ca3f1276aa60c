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
	FetchRequests             atomic.Int64
	FetchErrors               atomic.Int64
	WebPageRequests           atomic.Int64
	YouTubeTranscriptRequests atomic.Int64
	LLMCalls                  atomic.Int64
	LLMErrors                 atomic.Int64
	SummariesSinglePass       atomic.Int64
	SummariesMapReduce        atomic.Int64
}

var metricKeys = []string{
	"fetch_requests", "fetch_errors",
	"web_page_requests", "youtube_transcript_requests",
	"llm_calls", "llm_errors",
	"summaries_single_pass", "summaries_map_reduce",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"fetch_requests":              metrics.FetchRequests.Load(),
		"fetch_errors":                metrics.FetchErrors.Load(),
		"web_page_requests":           metrics.WebPageRequests.Load(),
		"youtube_transcript_requests": metrics.YouTubeTranscriptRequests.Load(),
		"llm_calls":                   metrics.LLMCalls.Load(),
		"llm_errors":                  metrics.LLMErrors.Load(),
		"summaries_single_pass":       metrics.SummariesSinglePass.Load(),
		"summaries_map_reduce":        metrics.SummariesMapReduce.Load(),
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

// Incrementors for sources/ sub-package.
func IncrYouTubeTranscript() { metrics.YouTubeTranscriptRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 10*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
