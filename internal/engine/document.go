package engine

import (
	"strings"
	"unicode/utf8"
)

// Document is one unit of fetched text plus loader metadata.
// Treat values as immutable: chunking builds new Documents that share Metadata.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Metadata keys shared by the fetchers.
const (
	MetaSource      = "source"
	MetaTitle       = "title"
	MetaUploader    = "uploader"
	MetaDuration    = "duration"
	MetaViewCount   = "view_count"
	MetaByline      = "byline"
	MetaSiteName    = "site_name"
	MetaExcerpt     = "excerpt"
	MetaContentType = "content_type"
)

// TotalLength sums document lengths in characters (code points).
// Both the chunking and the strategy decision use this value.
func TotalLength(docs []Document) int {
	n := 0
	for _, d := range docs {
		n += utf8.RuneCountInString(d.Content)
	}
	return n
}

// JoinContent concatenates document contents for a single prompt.
func JoinContent(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Content)
	}
	return strings.Join(parts, "\n\n")
}

// DocumentTitle returns the first non-empty title found in docs.
func DocumentTitle(docs []Document) string {
	for _, d := range docs {
		if t, ok := d.Metadata[MetaTitle].(string); ok && t != "" {
			return t
		}
	}
	return ""
}
