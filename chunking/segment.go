package chunking

import "strings"

// ParagraphSeparator delimits paragraphs in raw text.
const ParagraphSeparator = "\n\n"

// SegmentParagraphs splits raw text into paragraph units on blank-line
// boundaries. A trailing separator is appended when the text lacks one, so
// every paragraph, including the last, is delimited the same way. Each
// paragraph is trimmed of surrounding whitespace. Empty strings are kept;
// the minimum-size filter drops them downstream.
func SegmentParagraphs(content string) []string {
	if !strings.HasSuffix(content, ParagraphSeparator) {
		content += ParagraphSeparator
	}
	paragraphs := strings.Split(content, ParagraphSeparator)
	for i := range paragraphs {
		paragraphs[i] = strings.TrimSpace(paragraphs[i])
	}
	return paragraphs
}
