package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers map prompts with "P(<content>)" and combine prompts with
// "FINAL", recording every prompt it sees.
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	calls   atomic.Int32
	failOn  string // prompt substring that triggers an error
	delay   func(prompt string) time.Duration
}

func (f *fakeLLM) Complete(ctx context.Context, _, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(prompt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("upstream 500")
	}
	if content, ok := strings.CutPrefix(prompt, "MAP:"); ok {
		return "P(" + content + ")", nil
	}
	if strings.HasPrefix(prompt, "COMBINE:") {
		return "FINAL", nil
	}
	return "SUMMARY", nil
}

func (f *fakeLLM) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

func testMapReduce() mapReduce {
	return mapReduce{mapPrompt: "MAP:%s", combinePrompt: "COMBINE:%s", concurrency: 3}
}

func chunkDocs(n int) []Document {
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = Document{Content: fmt.Sprintf("chunk-%d", i)}
	}
	return docs
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		total int
		want  Mode
	}{
		{0, ModeSinglePass},
		{1, ModeSinglePass},
		{ChunkThreshold, ModeSinglePass},
		{ChunkThreshold + 1, ModeMapReduce},
		{100000, ModeMapReduce},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.total).Mode())
		})
	}
}

func TestSinglePass(t *testing.T) {
	llm := &fakeLLM{}
	docs := []Document{{Content: "alpha"}, {Content: "beta"}}

	out, err := SelectStrategy(TotalLength(docs)).Summarize(context.Background(), llm, docs)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY", out)
	assert.EqualValues(t, 1, llm.calls.Load())
	assert.Equal(t, fmt.Sprintf(summaryPrompt, "alpha\n\nbeta"), llm.last())
}

func TestSinglePassError(t *testing.T) {
	llm := &fakeLLM{failOn: "alpha"}
	_, err := singlePass{prompt: summaryPrompt}.Summarize(context.Background(), llm, []Document{{Content: "alpha"}})

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindSummarizationFailure, e.Kind)
	assert.Equal(t, "single-pass", e.Stage)
}

func TestMapReduceCallsAndOrder(t *testing.T) {
	// Later chunks finish first; partials must still follow chunk order.
	llm := &fakeLLM{delay: func(p string) time.Duration {
		if strings.HasPrefix(p, "MAP:chunk-0") {
			return 30 * time.Millisecond
		}
		return 0
	}}
	docs := chunkDocs(5)

	out, err := testMapReduce().Summarize(context.Background(), llm, docs)
	require.NoError(t, err)
	assert.Equal(t, "FINAL", out)
	assert.EqualValues(t, len(docs)+1, llm.calls.Load())

	var partials []string
	for i := range docs {
		partials = append(partials, fmt.Sprintf("P(chunk-%d)", i))
	}
	assert.Equal(t, "COMBINE:"+strings.Join(partials, "\n\n"), llm.last())
}

func TestMapReduceRespectsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := CompleterFunc(func(ctx context.Context, _, prompt string) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return "x", nil
	})

	m := testMapReduce()
	m.concurrency = 2
	_, err := m.Summarize(context.Background(), c, chunkDocs(8))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMapReducePaced(t *testing.T) {
	llm := &fakeLLM{}
	m := testMapReduce()
	m.rps = 1000

	out, err := m.Summarize(context.Background(), llm, chunkDocs(3))
	require.NoError(t, err)
	assert.Equal(t, "FINAL", out)
	assert.EqualValues(t, 4, llm.calls.Load())
}

func TestMapReduceErrors(t *testing.T) {
	tests := []struct {
		name      string
		failOn    string
		wantStage string
	}{
		{"map failure", "MAP:chunk-2", "map"},
		{"reduce failure", "COMBINE:", "reduce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{failOn: tt.failOn}
			out, err := testMapReduce().Summarize(context.Background(), llm, chunkDocs(4))
			assert.Empty(t, out)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindSummarizationFailure, e.Kind)
			assert.Equal(t, tt.wantStage, e.Stage)
		})
	}
}

func TestMapReduceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	llm := &fakeLLM{delay: func(string) time.Duration { return time.Second }}

	_, err := testMapReduce().Summarize(ctx, llm, chunkDocs(3))
	require.Error(t, err)
	assert.Equal(t, KindSummarizationFailure, KindOf(err))
}

func TestMapReduceLogsChunkLengthInCharacters(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	docs := []Document{{Content: "héllo wörld"}}
	_, err := testMapReduce().Summarize(context.Background(), &fakeLLM{}, docs)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"map chunk","index":0,"chars":11`)
}
