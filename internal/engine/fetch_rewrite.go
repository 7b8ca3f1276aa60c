package engine

import (
	"fmt"
	"regexp"
)

// githubBlobRe matches github.com/:owner/:repo/blob/:ref/:path
var githubBlobRe = regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+)/blob/([^/?#]+)/([^?#]+)`)

// fetchURL returns the URL to download for pageURL. GitHub file views are
// fetched from raw.githubusercontent.com so the file body arrives as plain
// text instead of the rendered repository page.
func fetchURL(pageURL string) string {
	m := githubBlobRe.FindStringSubmatch(pageURL)
	if m == nil {
		return pageURL
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", m[1], m[2], m[3])
}
