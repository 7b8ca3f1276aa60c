package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// WebFetcher loads the readable text of an arbitrary web page.
type WebFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewWebFetcher returns a fetcher using the configured page client.
func NewWebFetcher() *WebFetcher {
	return &WebFetcher{client: cfg.PageClient, maxBytes: cfg.MaxPageBytes}
}

// Fetch returns one document with the page text, or none when the page has no
// extractable text. HTML goes through go-readability with a goquery fallback;
// PDF and plain text are read directly.
func (f *WebFetcher) Fetch(ctx context.Context, pageURL string) ([]Document, error) {
	metrics.WebPageRequests.Add(1)

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	body, ct, err := fetchPage(ctx, f.client, fetchURL(pageURL), f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	meta := map[string]any{MetaSource: pageURL}
	if ct != "" {
		meta[MetaContentType] = ct
	}

	var text string
	switch {
	case ct == "application/pdf":
		text, err = extractPDFText(body)
		if err != nil {
			return nil, err
		}
	case ct == "text/plain":
		text = string(body)
	default:
		text = extractHTMLText(pageURL, body, meta)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return []Document{{Content: text, Metadata: meta}}, nil
}

// parseArticle runs readability over a parsed page.
var parseArticle = readability.FromDocument

// extractHTMLText extracts the main article text, recording title and byline
// into meta. Falls back to goquery when readability finds nothing.
func extractHTMLText(pageURL string, body []byte, meta map[string]any) string {
	parsedURL, _ := url.Parse(pageURL)
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		slog.Warn("html parse failed", slog.String("url", pageURL), slog.Any("error", err))
		return ""
	}

	article, err := parseArticle(doc, parsedURL)
	if err == nil {
		if text := articleText(article); text != "" {
			setIf(meta, MetaTitle, article.Title)
			setIf(meta, MetaByline, article.Byline)
			setIf(meta, MetaSiteName, article.SiteName)
			setIf(meta, MetaExcerpt, article.Excerpt)
			return text
		}
		err = errors.New("empty article")
	}
	slog.Warn("readability failed, trying goquery", slog.String("url", pageURL), slog.Any("error", err))

	// readability rewrites the tree, parse again for the fallback.
	doc, err = html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title, text := extractWithGoquery(goquery.NewDocumentFromNode(doc))
	setIf(meta, MetaTitle, title)
	return text
}

// articleText renders the article as markdown, keeping headings and lists.
func articleText(article readability.Article) string {
	if article.Content != "" {
		if md, err := htmltomarkdown.ConvertString(article.Content); err == nil {
			if md = strings.TrimSpace(md); md != "" {
				return md
			}
		}
	}
	return strings.TrimSpace(article.TextContent)
}

var removeSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"header", "footer", "nav", "aside",
	".advertisement", ".ad", ".sidebar", ".comments",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}

// extractWithGoquery uses goquery for structured HTML parsing when readability fails.
func extractWithGoquery(doc *goquery.Document) (title, content string) {
	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}

	doc.Find(strings.Join(removeSelectors, ", ")).Remove()

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}
	return title, CollapseSpaces(contentSel.Text())
}

// extractPDFText reads the plain text of every page.
func extractPDFText(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, content); err != nil {
		return "", err
	}
	return CollapseSpaces(sb.String()), nil
}

func setIf(meta map[string]any, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		meta[key] = value
	}
}
