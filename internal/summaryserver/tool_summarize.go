package summaryserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/anatolykoptev/go_summarize/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SummarizeInput is the summarize_url tool input.
type SummarizeInput struct {
	URL    string `json:"url" jsonschema:"YouTube video or web page URL to summarize"`
	APIKey string `json:"api_key,omitempty" jsonschema:"LLM API key for this request. Defaults to the server's LLM_API_KEY"`
}

// SummarizeOutput is the summarize_url tool output.
type SummarizeOutput struct {
	Summary     string `json:"summary"`
	Mode        string `json:"mode"`
	SourceKind  string `json:"source_kind"`
	Title       string `json:"title,omitempty"`
	TotalLength int    `json:"total_length"`
	Documents   int    `json:"documents"`
	Chunks      int    `json:"chunks"`
}

func registerSummarizeURL(server *mcp.Server, p *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_url",
		Description: "Summarize a YouTube video (from its English captions) or a web page. Short content is summarized in one LLM call; content over 8000 characters is split into overlapping chunks, each chunk summarized, then the partial summaries combined.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, summarizeHandler(p))
}

func summarizeHandler(p *engine.Pipeline) func(context.Context, *mcp.CallToolRequest, SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
		res, err := p.Run(ctx, engine.Request{
			URL:    input.URL,
			APIKey: toolutil.ResolveAPIKey(input.APIKey, engine.Cfg.LLMAPIKey),
		})
		if err != nil {
			slog.Warn("summarize_url failed",
				slog.String("url", input.URL),
				slog.String("kind", engine.KindOf(err).String()),
				slog.Any("error", err))
			return nil, SummarizeOutput{}, toolutil.ToolError(err)
		}
		return nil, SummarizeOutput{
			Summary:     res.Summary,
			Mode:        string(res.Mode),
			SourceKind:  res.Source.String(),
			Title:       res.Title,
			TotalLength: res.TotalLength,
			Documents:   res.Documents,
			Chunks:      res.Chunks,
		}, nil
	}
}
