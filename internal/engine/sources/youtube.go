package sources

// YouTube support is split across three files:
//   youtube_innertube.go  watch page scrape, player response types, HTTP primitives
//   youtube_transcript.go caption track pools, language preference, Document assembly
//   captions.go           WebVTT/SRT payload parsing into text fragments
