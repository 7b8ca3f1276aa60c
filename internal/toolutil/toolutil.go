// Package toolutil provides shared helpers for the go_summarize MCP tools.
package toolutil

import (
	"errors"
	"strings"

	"github.com/anatolykoptev/go_summarize/internal/engine"
)

// ResolveAPIKey returns the request key, or fallback when the request has none.
func ResolveAPIKey(given, fallback string) string {
	if k := strings.TrimSpace(given); k != "" {
		return k
	}
	return fallback
}

// ToolError converts a pipeline error into the error returned to the MCP
// client, carrying the user-facing message.
func ToolError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(engine.UserMessage(err))
}

// TrimDocuments returns copies of docs with each content capped at maxChars
// runes on a word boundary. maxChars <= 0 returns docs unchanged.
func TrimDocuments(docs []engine.Document, maxChars int) []engine.Document {
	if maxChars <= 0 {
		return docs
	}
	out := make([]engine.Document, len(docs))
	for i, d := range docs {
		out[i] = engine.Document{
			Content:  engine.TruncateAtWord(d.Content, maxChars),
			Metadata: d.Metadata,
		}
	}
	return out
}
