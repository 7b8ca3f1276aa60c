package engine

import (
	"net"
	"net/url"
	"strings"
)

// SourceKind tells which fetcher handles a URL.
type SourceKind int

const (
	SourceWeb     SourceKind = iota // default
	SourceYouTube                   // watch page or youtu.be short link
)

func (s SourceKind) String() string {
	if s == SourceYouTube {
		return "youtube"
	}
	return "web"
}

// DetectSource classifies a URL by simple pattern matching.
// Pure string matching, no IO.
func DetectSource(rawURL string) SourceKind {
	if strings.Contains(rawURL, "youtube.com/watch") || strings.Contains(rawURL, "youtu.be") {
		return SourceYouTube
	}
	return SourceWeb
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a plausible host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	host := u.Hostname()
	if host == "" || strings.ContainsAny(host, " \t") {
		return ErrInvalidURL
	}
	if net.ParseIP(host) != nil || host == "localhost" {
		return nil
	}
	// Require a dotted name with a non-empty TLD, like "example.com".
	dot := strings.LastIndexByte(host, '.')
	if dot <= 0 || dot == len(host)-1 {
		return ErrInvalidURL
	}
	return nil
}
