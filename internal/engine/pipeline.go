package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Fetcher loads the documents behind a URL. A nil slice with nil error means
// the source had no content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]Document, error)
}

// Request is one summarize call.
type Request struct {
	URL    string
	APIKey string
}

// Result is a finished summary plus what produced it.
type Result struct {
	Summary     string
	Mode        Mode
	Source      SourceKind
	Title       string
	TotalLength int
	Documents   int
	Chunks      int
}

// Pipeline runs fetch → chunk → select → summarize. It holds no per-request
// state; one value serves any number of requests.
type Pipeline struct {
	YouTube      Fetcher
	Web          Fetcher
	NewCompleter func(apiKey string) Completer // defaults to NewLLMCompleter
}

// Run summarizes the content at req.URL. Input is validated before any network
// call; any stage failure fails the whole request.
func (p *Pipeline) Run(ctx context.Context, req Request) (out Result, err error) {
	_ = TrackOperation(ctx, "summarize:"+req.URL, func(ctx context.Context) error {
		out, err = p.run(ctx, req)
		return err
	})
	return
}

func (p *Pipeline) run(ctx context.Context, req Request) (Result, error) {
	rawURL := strings.TrimSpace(req.URL)
	if err := ValidateURL(rawURL); err != nil {
		return Result{}, invalidInput(err)
	}
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return Result{}, invalidInput(ErrMissingAPIKey)
	}

	docs, src, err := p.fetch(ctx, rawURL)
	if err != nil {
		return Result{}, err
	}

	total := TotalLength(docs)
	chunks := Chunk(docs)
	if total > ChunkThreshold {
		slog.Info("splitting large content",
			slog.Int("chars", total), slog.Int("chunks", len(chunks)))
	}

	strategy := SelectStrategy(total)
	slog.Info("processing content",
		slog.String("url", rawURL),
		slog.String("mode", string(strategy.Mode())),
		slog.Int("chars", total))

	summary, err := strategy.Summarize(ctx, p.completer(apiKey), chunks)
	if err != nil {
		return Result{}, err
	}
	if strategy.Mode() == ModeMapReduce {
		metrics.SummariesMapReduce.Add(1)
	} else {
		metrics.SummariesSinglePass.Add(1)
	}

	return Result{
		Summary:     summary,
		Mode:        strategy.Mode(),
		Source:      src,
		Title:       DocumentTitle(docs),
		TotalLength: total,
		Documents:   len(docs),
		Chunks:      len(chunks),
	}, nil
}

// Fetch validates rawURL and loads its documents without summarizing.
func (p *Pipeline) Fetch(ctx context.Context, rawURL string) ([]Document, SourceKind, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return nil, DetectSource(rawURL), invalidInput(err)
	}
	return p.fetch(ctx, rawURL)
}

func (p *Pipeline) fetch(ctx context.Context, rawURL string) ([]Document, SourceKind, error) {
	metrics.FetchRequests.Add(1)

	src := DetectSource(rawURL)
	f := p.Web
	if src == SourceYouTube {
		f = p.YouTube
	}
	if f == nil {
		metrics.FetchErrors.Add(1)
		return nil, src, fetchFailure(src, fmt.Errorf("no %s fetcher configured", src))
	}

	docs, err := f.Fetch(ctx, rawURL)
	if err != nil {
		metrics.FetchErrors.Add(1)
		slog.Warn("fetch failed", slog.String("url", rawURL), slog.Any("error", err))
		return nil, src, fetchFailure(src, err)
	}
	if len(docs) == 0 {
		return nil, src, noContent(src)
	}
	slog.Info("content loaded",
		slog.String("source", src.String()),
		slog.Int("documents", len(docs)))
	return docs, src, nil
}

func (p *Pipeline) completer(apiKey string) Completer {
	if p.NewCompleter != nil {
		return p.NewCompleter(apiKey)
	}
	return NewLLMCompleter(apiKey)
}
