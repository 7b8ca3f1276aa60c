package engine

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go-kit/llm"
)

// Completer sends one prompt to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

// NewLLMCompleter builds a chat client for one request using the caller's key
// and the configured model, temperature and max_tokens.
func NewLLMCompleter(apiKey string) Completer {
	client := llm.NewClient(cfg.LLMAPIBase, apiKey, cfg.LLMModel,
		llm.WithMaxTokens(cfg.LLMMaxTokens),
		llm.WithTemperature(cfg.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
	)
	return CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return client.Complete(ctx, system, prompt)
	})
}

// CallLLM sends a prompt and returns the reply verbatim.
func CallLLM(ctx context.Context, c Completer, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := c.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	slog.Debug("llm reply", slog.String("preview", TruncateRunes(resp, 80, "...")))
	return resp, nil
}
