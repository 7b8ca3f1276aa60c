package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Mode names a summarization strategy.
type Mode string

const (
	ModeSinglePass Mode = "single-pass" // stuff all content into one prompt
	ModeMapReduce  Mode = "map-reduce"  // summarize chunks, then combine
)

// Strategy turns documents into one summary through a Completer.
type Strategy interface {
	Mode() Mode
	Summarize(ctx context.Context, c Completer, docs []Document) (string, error)
}

// SelectStrategy picks single-pass up to ChunkThreshold characters and
// map-reduce above it.
func SelectStrategy(totalLength int) Strategy {
	if totalLength > ChunkThreshold {
		return mapReduce{
			mapPrompt:     summaryPrompt,
			combinePrompt: combinePrompt,
			concurrency:   cfg.MapConcurrency,
			rps:           cfg.MapRPS,
		}
	}
	return singlePass{prompt: summaryPrompt}
}

type singlePass struct {
	prompt string
}

func (singlePass) Mode() Mode { return ModeSinglePass }

func (s singlePass) Summarize(ctx context.Context, c Completer, docs []Document) (string, error) {
	out, err := CallLLM(ctx, c, fmt.Sprintf(s.prompt, JoinContent(docs)))
	if err != nil {
		return "", summarizationFailure(string(ModeSinglePass), err)
	}
	return out, nil
}

type mapReduce struct {
	mapPrompt     string
	combinePrompt string
	concurrency   int
	rps           float64 // 0 = unpaced
}

func (mapReduce) Mode() Mode { return ModeMapReduce }

func (m mapReduce) Summarize(ctx context.Context, c Completer, docs []Document) (string, error) {
	partials, err := m.mapPhase(ctx, c, docs)
	if err != nil {
		return "", err
	}
	slog.Debug("map phase done", slog.Int("partials", len(partials)))

	out, err := CallLLM(ctx, c, fmt.Sprintf(m.combinePrompt, strings.Join(partials, "\n\n")))
	if err != nil {
		return "", summarizationFailure("reduce", err)
	}
	return out, nil
}

// mapPhase summarizes every chunk. Partials keep chunk order regardless of
// completion order; the first failure cancels the rest.
func (m mapReduce) mapPhase(ctx context.Context, c Completer, docs []Document) ([]string, error) {
	var limiter *rate.Limiter
	if m.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.rps), 1)
	}

	partials := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.concurrency, 1))
	for i, d := range docs {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			slog.Debug("map chunk", slog.Int("index", i), slog.Int("chars", utf8.RuneCountInString(d.Content)))
			out, err := CallLLM(gctx, c, fmt.Sprintf(m.mapPrompt, d.Content))
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			partials[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, summarizationFailure("map", err)
	}
	return partials, nil
}
