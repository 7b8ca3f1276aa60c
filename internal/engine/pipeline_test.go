package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	docs  []Document
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(context.Context, string) ([]Document, error) {
	f.calls.Add(1)
	return f.docs, f.err
}

type pipelineFixture struct {
	youtube, web *fakeFetcher
	llm          *fakeLLM
	keys         []string
	p            *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	fx := &pipelineFixture{youtube: &fakeFetcher{}, web: &fakeFetcher{}, llm: &fakeLLM{}}
	fx.p = &Pipeline{
		YouTube: fx.youtube,
		Web:     fx.web,
		NewCompleter: func(key string) Completer {
			fx.keys = append(fx.keys, key)
			return fx.llm
		},
	}
	return fx
}

func (fx *pipelineFixture) fetchCalls() int32 {
	return fx.youtube.calls.Load() + fx.web.calls.Load()
}

func TestPipelineRejectsInvalidInputBeforeFetch(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
		wantMsg string
	}{
		{"empty url", Request{URL: "", APIKey: "k"}, ErrMissingURL, "Please enter a URL."},
		{"blank url", Request{URL: "   ", APIKey: "k"}, ErrMissingURL, "Please enter a URL."},
		{"not a url", Request{URL: "not a url", APIKey: "k"}, ErrInvalidURL, "Please enter a valid URL."},
		{"ftp scheme", Request{URL: "ftp://example.com/a", APIKey: "k"}, ErrInvalidURL, "Please enter a valid URL."},
		{"missing key", Request{URL: "https://example.com", APIKey: ""}, ErrMissingAPIKey, "Please enter your LLM API key."},
		{"blank key", Request{URL: "https://example.com", APIKey: "  "}, ErrMissingAPIKey, "Please enter your LLM API key."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newPipelineFixture()
			_, err := fx.p.Run(context.Background(), tt.req)

			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, KindOf(err))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, UserMessage(err))
			assert.Zero(t, fx.fetchCalls())
			assert.Zero(t, fx.llm.calls.Load())
		})
	}
}

func TestPipelineRoutesBySource(t *testing.T) {
	tests := []struct {
		url     string
		wantSrc SourceKind
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", SourceYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", SourceYouTube},
		{"https://example.com/article", SourceWeb},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			fx := newPipelineFixture()
			docs := []Document{{Content: "some text", Metadata: map[string]any{MetaTitle: "T"}}}
			fx.youtube.docs = docs
			fx.web.docs = docs

			res, err := fx.p.Run(context.Background(), Request{URL: tt.url, APIKey: "key-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, res.Source)
			if tt.wantSrc == SourceYouTube {
				assert.EqualValues(t, 1, fx.youtube.calls.Load())
				assert.Zero(t, fx.web.calls.Load())
			} else {
				assert.EqualValues(t, 1, fx.web.calls.Load())
				assert.Zero(t, fx.youtube.calls.Load())
			}
		})
	}
}

func TestPipelineSinglePass(t *testing.T) {
	fx := newPipelineFixture()
	fx.web.docs = []Document{{Content: "short article", Metadata: map[string]any{MetaTitle: "Article"}}}

	res, err := fx.p.Run(context.Background(), Request{URL: " https://example.com/a ", APIKey: " key-1 "})
	require.NoError(t, err)

	assert.Equal(t, "SUMMARY", res.Summary)
	assert.Equal(t, ModeSinglePass, res.Mode)
	assert.Equal(t, "Article", res.Title)
	assert.Equal(t, len("short article"), res.TotalLength)
	assert.Equal(t, 1, res.Documents)
	assert.Equal(t, 1, res.Chunks)
	assert.EqualValues(t, 1, fx.llm.calls.Load())
	assert.Equal(t, []string{"key-1"}, fx.keys)
}

func TestPipelineMapReduce(t *testing.T) {
	fx := newPipelineFixture()
	fx.web.docs = []Document{{Content: longText(20000)}}

	res, err := fx.p.Run(context.Background(), Request{URL: "https://example.com/long", APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, ModeMapReduce, res.Mode)
	assert.Equal(t, 20000, res.TotalLength)
	assert.GreaterOrEqual(t, res.Chunks, 6)
	assert.EqualValues(t, res.Chunks+1, fx.llm.calls.Load())
	assert.True(t, strings.HasPrefix(fx.llm.last(), combinePrompt[:40]), "reduce runs last")
}

func TestPipelineFetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		docs     []Document
		err      error
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name: "web error", url: "https://example.com",
			err: errors.New("HTTP 503"), wantKind: KindFetchFailure,
			wantMsg: "Error loading content from URL: HTTP 503",
		},
		{
			name: "web empty", url: "https://example.com",
			wantKind: KindNoContentFound, wantMsg: "No content found at the provided URL.",
		},
		{
			name: "youtube error", url: "https://youtu.be/dQw4w9WgXcQ",
			err: errors.New("video unavailable"), wantKind: KindFetchFailure,
			wantMsg: "Error extracting YouTube content: video unavailable",
		},
		{
			name: "youtube no captions", url: "https://youtu.be/dQw4w9WgXcQ",
			docs: []Document{}, wantKind: KindNoContentFound,
			wantMsg: "Could not extract transcript from YouTube video.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newPipelineFixture()
			fx.web.docs, fx.web.err = tt.docs, tt.err
			fx.youtube.docs, fx.youtube.err = tt.docs, tt.err

			_, err := fx.p.Run(context.Background(), Request{URL: tt.url, APIKey: "k"})
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.True(t, strings.HasPrefix(UserMessage(err), tt.wantMsg), UserMessage(err))
			assert.Zero(t, fx.llm.calls.Load(), "no LLM call after a fetch failure")
		})
	}
}

func TestPipelineSummarizationFailure(t *testing.T) {
	fx := newPipelineFixture()
	fx.web.docs = []Document{{Content: "text"}}
	fx.llm.failOn = "text"

	_, err := fx.p.Run(context.Background(), Request{URL: "https://example.com", APIKey: "bad"})
	require.Error(t, err)
	assert.Equal(t, KindSummarizationFailure, KindOf(err))
	assert.Contains(t, UserMessage(err), "Please check your API key and URL")
}

func TestPipelineFetchOnly(t *testing.T) {
	fx := newPipelineFixture()
	fx.web.docs = []Document{{Content: "body"}}

	docs, src, err := fx.p.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, SourceWeb, src)
	assert.Len(t, docs, 1)
	assert.Zero(t, fx.llm.calls.Load())

	_, _, err = fx.p.Fetch(context.Background(), "")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestPipelineMissingFetcher(t *testing.T) {
	p := &Pipeline{NewCompleter: func(string) Completer { return &fakeLLM{} }}
	_, err := p.Run(context.Background(), Request{URL: "https://example.com", APIKey: "k"})
	assert.Equal(t, KindFetchFailure, KindOf(err))
}
