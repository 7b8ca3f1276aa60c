package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures for user-facing reporting.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota + 1
	KindFetchFailure
	KindNoContentFound
	KindSummarizationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindFetchFailure:
		return "fetch_failure"
	case KindNoContentFound:
		return "no_content_found"
	case KindSummarizationFailure:
		return "summarization_failure"
	}
	return "unknown"
}

// Input validation reasons. Checked before any network activity.
var (
	ErrMissingURL    = errors.New("missing URL")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrMissingAPIKey = errors.New("missing API key")
)

// Error is a categorized pipeline failure.
type Error struct {
	Kind   ErrorKind
	Source SourceKind // set for fetch and no-content errors
	Stage  string     // summarization stage: single-pass, map, reduce
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Stage != "" {
		b.WriteString(" (" + e.Stage + ")")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func invalidInput(err error) *Error { return &Error{Kind: KindInvalidInput, Err: err} }

func fetchFailure(src SourceKind, err error) *Error {
	return &Error{Kind: KindFetchFailure, Source: src, Err: err}
}

func noContent(src SourceKind) *Error { return &Error{Kind: KindNoContentFound, Source: src} }

func summarizationFailure(stage string, err error) *Error {
	return &Error{Kind: KindSummarizationFailure, Stage: stage, Err: err}
}

// KindOf returns the kind of a categorized error, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// youtubeHints explains the common reasons a video yields no captions.
var youtubeHints = []string{
	"Video has no captions/subtitles available",
	"Video is private, age-restricted, or deleted",
	"Regional restrictions apply",
}

// UserMessage renders err as the text shown to the caller.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("An error occurred: %v", err)
	}
	switch e.Kind {
	case KindInvalidInput:
		switch {
		case errors.Is(e.Err, ErrMissingURL):
			return "Please enter a URL."
		case errors.Is(e.Err, ErrInvalidURL):
			return "Please enter a valid URL."
		case errors.Is(e.Err, ErrMissingAPIKey):
			return "Please enter your LLM API key."
		}
		return fmt.Sprintf("Invalid input: %v", e.Err)
	case KindNoContentFound:
		if e.Source == SourceYouTube {
			return youtubeNoTranscript()
		}
		return "No content found at the provided URL."
	case KindFetchFailure:
		if e.Source == SourceYouTube {
			return fmt.Sprintf("Error extracting YouTube content: %v\n%s", e.Err, youtubeNoTranscript())
		}
		return fmt.Sprintf("Error loading content from URL: %v", e.Err)
	case KindSummarizationFailure:
		return fmt.Sprintf("An error occurred while summarizing: %v\nPlease check your API key and URL, then try again.", e.Err)
	}
	return err.Error()
}

func youtubeNoTranscript() string {
	return "Could not extract transcript from YouTube video. This may happen if:\n• " +
		strings.Join(youtubeHints, "\n• ")
}
