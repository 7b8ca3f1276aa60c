package engine

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// newPageClient creates the client for arbitrary web pages. Certificate
// verification is off: many sites serve broken chains and the content is
// read-only text.
func newPageClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // relaxed for compatibility
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// pageHeaders returns Chrome-like request headers with the fixed browser user agent.
func pageHeaders() map[string]string {
	h := make(map[string]string)
	for k, v := range stealth.ChromeHeaders() {
		switch strings.ToLower(k) {
		case "user-agent", "accept-encoding":
			continue
		}
		h[k] = v
	}
	h["User-Agent"] = UserAgentBrowser
	h["Accept-Encoding"] = "gzip"
	return h
}

// fetchPage performs one GET and returns the body and its media type.
// No retries: a failed page fails the request.
func fetchPage(ctx context.Context, client *http.Client, pageURL string, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	for k, v := range pageHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := readResponseBody(resp, maxBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, mediaType(resp.Header.Get("Content-Type")), nil
}

// readResponseBody reads the response body, handling gzip decompression if needed.
func readResponseBody(resp *http.Response, maxBytes int64) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
