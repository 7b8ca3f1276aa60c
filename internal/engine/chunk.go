package engine

import "unicode"

// Chunking parameters, in characters (code points).
const (
	ChunkSize      = 4000
	ChunkOverlap   = 200
	ChunkThreshold = 8000 // content longer than this is chunked and map-reduced
)

// separatorLevels are tried in order: paragraph, line, sentence, word.
// Within a level the latest break inside the window wins.
var separatorLevels = [][][]rune{
	{[]rune("\n\n")},
	{[]rune("\n")},
	{[]rune(". "), []rune("! "), []rune("? ")},
	{[]rune(" ")},
}

// span is a half-open rune range [start, end) of the source text.
type span struct {
	start, end int
}

// Chunk splits docs into overlapping windows when their total length exceeds
// ChunkThreshold. Below the threshold docs is returned unchanged.
func Chunk(docs []Document) []Document {
	if TotalLength(docs) <= ChunkThreshold {
		return docs
	}
	out := make([]Document, 0, len(docs)*2)
	for _, d := range docs {
		for _, piece := range SplitText(d.Content) {
			out = append(out, Document{Content: piece, Metadata: d.Metadata})
		}
	}
	return out
}

// SplitText cuts text into windows of at most ChunkSize characters, consecutive
// windows sharing at most ChunkOverlap characters.
func SplitText(text string) []string {
	r := []rune(text)
	spans := splitSpans(r, ChunkSize, ChunkOverlap)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = string(r[s.start:s.end])
	}
	return out
}

func splitSpans(r []rune, size, overlap int) []span {
	if len(r) == 0 {
		return nil
	}
	var spans []span
	start := 0
	for {
		if len(r)-start <= size {
			return append(spans, span{start, len(r)})
		}
		end := breakPoint(r, start, start+size, overlap)
		spans = append(spans, span{start, end})
		start = overlapStart(r, start, end, overlap)
	}
}

// breakPoint returns the end of the window starting at start. A separator break
// is accepted only when it keeps at least half the window (and more than the
// overlap), so an early paragraph break yields to a later sentence or word break.
func breakPoint(r []rune, start, limit, overlap int) int {
	floor := start + max(overlap, (limit-start)/2)
	for _, level := range separatorLevels {
		for p := limit; p > floor; p-- {
			for _, sep := range level {
				if endsWith(r[start:p], sep) {
					return p
				}
			}
		}
	}
	return limit
}

// overlapStart picks where the next window begins: overlap characters before
// end, moved forward to the first word start in the overlap region.
func overlapStart(r []rune, start, end, overlap int) int {
	next := max(end-overlap, start+1)
	for i := next; i < end; i++ {
		if i > 0 && unicode.IsSpace(r[i-1]) && !unicode.IsSpace(r[i]) {
			return i
		}
	}
	return next
}

func endsWith(r, sep []rune) bool {
	if len(r) < len(sep) {
		return false
	}
	tail := r[len(r)-len(sep):]
	for i := range sep {
		if tail[i] != sep[i] {
			return false
		}
	}
	return true
}
