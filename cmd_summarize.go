package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/anatolykoptev/go_summarize/internal/toolutil"
	"github.com/spf13/cobra"
)

var (
	summarizeAPIKey string
	summarizeJSON   bool
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Summarize a YouTube video or web page",
		Long: `Fetch the content behind a URL and summarize it.

YouTube links use the video's English captions; any other URL uses the page's
readable text. Content over 8000 characters is summarized chunk by chunk and
the partial summaries combined.

Examples:
  go_summarize summarize https://youtu.be/dQw4w9WgXcQ
  go_summarize summarize --api-key gsk_... https://go.dev/blog/pipelines
  go_summarize summarize --json https://example.com/article`,
		Args: cobra.ExactArgs(1),
		RunE: runSummarize,
	}
	cmd.Flags().StringVar(&summarizeAPIKey, "api-key", "", "LLM API key (defaults to LLM_API_KEY)")
	cmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	res, err := newPipeline().Run(cmd.Context(), engine.Request{
		URL:    args[0],
		APIKey: toolutil.ResolveAPIKey(summarizeAPIKey, engine.Cfg.LLMAPIKey),
	})
	if err != nil {
		return errors.New(engine.UserMessage(err))
	}
	return printResult(cmd.OutOrStdout(), res, summarizeJSON)
}

func printResult(w io.Writer, res engine.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"summary":      res.Summary,
			"mode":         res.Mode,
			"source_kind":  res.Source.String(),
			"title":        res.Title,
			"total_length": res.TotalLength,
			"documents":    res.Documents,
			"chunks":       res.Chunks,
		})
	}
	if res.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", res.Title)
	}
	fmt.Fprintln(w, res.Summary)
	fmt.Fprintf(w, "\n(%s, %d characters, %d chunk(s))\n", res.Mode, res.TotalLength, res.Chunks)
	return nil
}
