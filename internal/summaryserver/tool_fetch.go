package summaryserver

import (
	"context"

	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/anatolykoptev/go_summarize/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FetchInput is the fetch_url_content tool input.
type FetchInput struct {
	URL      string `json:"url" jsonschema:"YouTube video or web page URL"`
	MaxChars int    `json:"max_chars,omitempty" jsonschema:"Cap each document's content at this many characters. 0 returns full content"`
}

// FetchOutput is the fetch_url_content tool output.
type FetchOutput struct {
	SourceKind  string            `json:"source_kind"`
	TotalLength int               `json:"total_length"`
	Documents   []engine.Document `json:"documents"`
}

func registerFetchURLContent(server *mcp.Server, p *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_url_content",
		Description: "Fetch the text behind a URL without summarizing it: the English caption transcript of a YouTube video, or the readable text of a web page or PDF, with loader metadata (title, uploader, duration, byline).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, fetchHandler(p))
}

func fetchHandler(p *engine.Pipeline) func(context.Context, *mcp.CallToolRequest, FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
		docs, src, err := p.Fetch(ctx, input.URL)
		if err != nil {
			return nil, FetchOutput{}, toolutil.ToolError(err)
		}
		return nil, FetchOutput{
			SourceKind:  src.String(),
			TotalLength: engine.TotalLength(docs),
			Documents:   toolutil.TrimDocuments(docs, input.MaxChars),
		}, nil
	}
}
