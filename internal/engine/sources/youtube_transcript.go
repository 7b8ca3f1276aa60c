package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_summarize/internal/engine"
)

// CaptionLanguages is the caption language preference order.
var CaptionLanguages = []string{"en", "en-US", "en-GB"}

// CaptionGetter downloads a caption payload. A *statusError (non-2xx) makes the
// caller try the next language; any other error fails the fetch.
type CaptionGetter func(ctx context.Context, trackURL string) (string, error)

// YouTube fetches a video's caption transcript as a Document.
type YouTube struct {
	client     *http.Client
	watchURL   string
	getCaption CaptionGetter
	langs      []string
}

// YouTubeOption customizes a YouTube fetcher.
type YouTubeOption func(*YouTube)

// WithHTTPClient sets the client for the watch page and caption payloads.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTube) { y.client = c }
}

// WithWatchURL overrides the watch page endpoint.
func WithWatchURL(u string) YouTubeOption {
	return func(y *YouTube) { y.watchURL = u }
}

// WithCaptionGetter replaces the caption payload download.
func WithCaptionGetter(g CaptionGetter) YouTubeOption {
	return func(y *YouTube) { y.getCaption = g }
}

// NewYouTube returns a fetcher using engine.Cfg.HTTPClient.
func NewYouTube(opts ...YouTubeOption) *YouTube {
	y := &YouTube{
		client:   engine.Cfg.HTTPClient,
		watchURL: ytWatchURL,
		langs:    CaptionLanguages,
	}
	for _, o := range opts {
		o(y)
	}
	if y.getCaption == nil {
		y.getCaption = y.defaultGetCaption
	}
	return y
}

func (y *YouTube) defaultGetCaption(ctx context.Context, trackURL string) (string, error) {
	return y.getCaptionPayload(ctx, vttURL(trackURL))
}

// Fetch returns one Document holding the video transcript, or nil when the
// video has no usable English captions.
func (y *YouTube) Fetch(ctx context.Context, rawURL string) ([]engine.Document, error) {
	engine.IncrYouTubeTranscript()

	videoID := extractVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("no video ID in %q", rawURL)
	}

	player, err := y.loadPlayerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}

	manual, auto := captionPools(player.tracks())
	text, err := y.transcript(ctx, manual)
	if err != nil {
		return nil, err
	}
	if text == "" {
		if text, err = y.transcript(ctx, auto); err != nil {
			return nil, err
		}
	}
	if text == "" {
		slog.Info("youtube: no caption text", slog.String("id", videoID))
		return nil, nil
	}

	return []engine.Document{{
		Content:  strings.TrimSpace(text),
		Metadata: videoMetadata(player, rawURL),
	}}, nil
}

// captionPools splits tracks into manual and automatic pools keyed by
// language, keeping the first track per language.
func captionPools(tracks []captionTrack) (manual, auto map[string]captionTrack) {
	manual = make(map[string]captionTrack)
	auto = make(map[string]captionTrack)
	for _, t := range tracks {
		if t.BaseURL == "" || needsPoToken(t.BaseURL) {
			continue
		}
		pool := manual
		if t.Kind == "asr" {
			pool = auto
		}
		if _, ok := pool[t.LanguageCode]; !ok {
			pool[t.LanguageCode] = t
		}
	}
	return manual, auto
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// transcript walks the language preference over one pool. The first language
// whose payload downloads successfully decides the result, even if it holds
// no text; non-2xx replies move on to the next language.
func (y *YouTube) transcript(ctx context.Context, pool map[string]captionTrack) (string, error) {
	for _, lang := range y.langs {
		track, ok := pool[lang]
		if !ok {
			continue
		}
		payload, err := y.getCaption(ctx, track.BaseURL)
		var se *statusError
		if errors.As(err, &se) {
			slog.Warn("youtube: caption fetch rejected",
				slog.String("lang", lang), slog.Int("status", se.StatusCode))
			continue
		}
		if err != nil {
			return "", err
		}
		return CaptionText(payload), nil
	}
	return "", nil
}

func videoMetadata(p *playerResponse, rawURL string) map[string]any {
	meta := map[string]any{
		engine.MetaTitle:     "Unknown",
		engine.MetaUploader:  "Unknown",
		engine.MetaDuration:  0,
		engine.MetaViewCount: 0,
		engine.MetaSource:    rawURL,
	}
	d := p.VideoDetails
	if d == nil {
		return meta
	}
	if d.Title != "" {
		meta[engine.MetaTitle] = d.Title
	}
	if d.Author != "" {
		meta[engine.MetaUploader] = d.Author
	}
	if n, err := strconv.Atoi(d.LengthSeconds); err == nil {
		meta[engine.MetaDuration] = n
	}
	if n, err := strconv.Atoi(d.ViewCount); err == nil {
		meta[engine.MetaViewCount] = n
	}
	return meta
}
