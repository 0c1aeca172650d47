package chunking

import "strings"

const (
	// DefaultMinChunkSize is the minimum trimmed length a piece must have to
	// survive filtering.
	DefaultMinChunkSize = 10

	// DefaultMaxChunkSize is the maximum length of any produced chunk.
	DefaultMaxChunkSize = 500

	// maxSplitDepth caps recursion on pathological input. Past the cap the
	// paragraph is hard-cut instead.
	maxSplitDepth = 32
)

// Splitter produces size-bounded, sentence-aligned chunks from raw text.
type Splitter struct {
	minChunkSize int
	maxChunkSize int
}

// NewSplitter creates a splitter with the given bounds. Non-positive values
// fall back to the defaults; a maximum below the minimum is raised to it.
func NewSplitter(minChunkSize, maxChunkSize int) *Splitter {
	if minChunkSize <= 0 {
		minChunkSize = DefaultMinChunkSize
	}
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if maxChunkSize < minChunkSize {
		maxChunkSize = minChunkSize
	}
	return &Splitter{
		minChunkSize: minChunkSize,
		maxChunkSize: maxChunkSize,
	}
}

// Chunk runs the full chunking pipeline over raw content: paragraph
// segmentation, recursive splitting of oversized paragraphs, and
// minimum-size filtering. The returned chunk texts are trimmed and appear
// in source order.
func (s *Splitter) Chunk(content string) []string {
	var chunks []string
	for _, paragraph := range SegmentParagraphs(content) {
		for _, piece := range s.Split(paragraph) {
			piece = strings.TrimSpace(piece)
			if len(piece) >= s.minChunkSize {
				chunks = append(chunks, piece)
			}
		}
	}
	return chunks
}

// Split recursively halves a paragraph at sentence boundaries until every
// piece fits the maximum size. Pieces are returned in left-to-right order
// and concatenate back to the input exactly. Splitting at a
// midpoint-adjacent sentence boundary keeps pieces topically coherent;
// paragraphs with no sentence boundary past their midpoint are hard-cut at
// the maximum size instead.
func (s *Splitter) Split(paragraph string) []string {
	return s.split(paragraph, 0)
}

func (s *Splitter) split(paragraph string, depth int) []string {
	if len(paragraph) <= s.maxChunkSize {
		return []string{paragraph}
	}
	if depth >= maxSplitDepth {
		return s.hardCut(paragraph)
	}

	mid := len(paragraph) / 2
	dot := strings.Index(paragraph[mid:], ".")
	if dot < 0 {
		// No sentence boundary at or after the midpoint.
		return s.hardCut(paragraph)
	}
	cut := mid + dot + 1 // keep the period on the left piece
	if cut >= len(paragraph) {
		// The only boundary is the final character; splitting there makes
		// no progress.
		return s.hardCut(paragraph)
	}

	pieces := s.split(paragraph[:cut], depth+1)
	return append(pieces, s.split(paragraph[cut:], depth+1)...)
}

// hardCut slices the paragraph into maximum-size pieces with no regard for
// sentence boundaries.
func (s *Splitter) hardCut(paragraph string) []string {
	var pieces []string
	for len(paragraph) > s.maxChunkSize {
		pieces = append(pieces, paragraph[:s.maxChunkSize])
		paragraph = paragraph[s.maxChunkSize:]
	}
	return append(pieces, paragraph)
}
