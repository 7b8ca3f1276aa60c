// go_summarize summarizes YouTube videos and web pages with an LLM.
//
// Runs as an MCP server (serve) exposing summarize_url and fetch_url_content,
// or as a one-shot CLI (summarize <url>).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/anatolykoptev/go_summarize/internal/engine/sources"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "go_summarize",
		Short:         "Summarize YouTube videos and web pages with an LLM",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env is optional; real environment variables win.
			_ = godotenv.Load()
			initLogging()
			initEngine()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	root.AddCommand(newServeCmd(), newSummarizeCmd())
	return root
}

func initLogging() {
	level := slog.LevelInfo
	if verbose || env.Str("LOG_LEVEL", "") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func initEngine() {
	engine.Init(engine.Config{
		LLMAPIBase:     env.Str("LLM_API_BASE", engine.DefaultLLMAPIBase),
		LLMAPIKey:      env.Str("LLM_API_KEY", ""),
		LLMModel:       env.Str("LLM_MODEL", engine.DefaultLLMModel),
		LLMTemperature: env.Float("LLM_TEMPERATURE", engine.DefaultLLMTemperature),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", engine.DefaultLLMMaxTokens),
		LLMTimeout:     env.Duration("LLM_TIMEOUT", 120*time.Second),
		FetchTimeout:   env.Duration("FETCH_TIMEOUT", 30*time.Second),
		MaxPageBytes:   int64(env.Int("MAX_PAGE_BYTES", engine.DefaultMaxPageBytes)),
		MapConcurrency: env.Int("MAP_CONCURRENCY", 4),
		MapRPS:         env.Float("MAP_RPS", 2),
	})
}

func newPipeline() *engine.Pipeline {
	return &engine.Pipeline{
		YouTube: sources.NewYouTube(),
		Web:     engine.NewWebFetcher(),
	}
}
