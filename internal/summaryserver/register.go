package summaryserver

import (
	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the summarization tools on the given MCP server:
// summarize_url, fetch_url_content.
func RegisterTools(server *mcp.Server, p *engine.Pipeline) {
	registerSummarizeURL(server, p)
	registerFetchURLContent(server, p)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 2
