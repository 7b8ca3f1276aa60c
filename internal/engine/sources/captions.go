package sources

import (
	"iter"
	"strings"
	"unicode"

	"github.com/anatolykoptev/go_summarize/internal/engine"
)

// lineKind classifies one line of a WebVTT or SRT caption payload.
type lineKind int

const (
	lineText      lineKind = iota
	lineBlank              // empty or whitespace only
	lineTimestamp          // cue timing, "00:00:01.000 --> 00:00:02.000"
	lineIndex              // SRT cue number
)

func classifyLine(line string) lineKind {
	if strings.Contains(line, "-->") {
		return lineTimestamp
	}
	s := strings.TrimSpace(line)
	if s == "" {
		return lineBlank
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return lineText
		}
	}
	return lineIndex
}

// CaptionLines yields the cleaned text fragments of a caption payload in
// order: timing, index and blank lines are dropped, markup tags stripped.
// A leading WEBVTT header block is skipped; it ends at the first blank line or
// cue timing line.
func CaptionLines(payload string) iter.Seq[string] {
	return func(yield func(string) bool) {
		inHeader := strings.HasPrefix(strings.TrimPrefix(payload, "\ufeff"), "WEBVTT")
		for line := range strings.Lines(payload) {
			if inHeader {
				kind := classifyLine(line)
				if kind != lineBlank && kind != lineTimestamp {
					continue
				}
				inHeader = false
			}
			if classifyLine(line) != lineText {
				continue
			}
			if clean := engine.CleanHTML(strings.TrimSpace(line)); clean != "" {
				if !yield(clean) {
					return
				}
			}
		}
	}
}

// CaptionText joins the fragments of payload with single spaces.
func CaptionText(payload string) string {
	var sb strings.Builder
	for frag := range CaptionLines(payload) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(frag)
	}
	return sb.String()
}
