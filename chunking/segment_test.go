package chunking

import (
	"strings"
	"testing"
)

func TestSegmentParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "two paragraphs without trailing separator",
			content: "First paragraph.\n\nSecond paragraph.",
			want:    []string{"First paragraph.", "Second paragraph.", ""},
		},
		{
			name:    "trailing separator already present",
			content: "Only paragraph.\n\n",
			want:    []string{"Only paragraph.", ""},
		},
		{
			name:    "single paragraph",
			content: "No blank lines here.",
			want:    []string{"No blank lines here.", ""},
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  padded paragraph \n\n\tindented one",
			want:    []string{"padded paragraph", "indented one", ""},
		},
		{
			name:    "empty input",
			content: "",
			want:    []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentParagraphs(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("SegmentParagraphs() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegmentParagraphsRoundTrip(t *testing.T) {
	// Rejoining the segments reproduces the input up to the trailing
	// separator normalization.
	content := "Alpha one.\n\nBeta two.\n\nGamma three."

	segments := SegmentParagraphs(content)
	rejoined := strings.Join(segments, ParagraphSeparator)

	if rejoined != content+ParagraphSeparator {
		t.Errorf("round trip = %q, want %q", rejoined, content+ParagraphSeparator)
	}
}
