package chunker

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentences",
			text: "First point. Second point. Third point.",
			want: []string{"First point.", "Second point.", "Third point."},
		},
		{
			name: "question and exclamation",
			text: "Is it done? Yes! Moving on.",
			want: []string{"Is it done?", "Yes!", "Moving on."},
		},
		{
			name: "no split before lowercase",
			text: "Budget is approx. three million dollars.",
			want: []string{"Budget is approx. three million dollars."},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
		{
			name: "no terminal punctuation",
			text: "trailing fragment without a period",
			want: []string{"trailing fragment without a period"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sentences %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitSingleChunk(t *testing.T) {
	chunks := Split("Short meeting. Nothing to split.", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("Index = %d, want 0", chunks[0].Index)
	}
	if chunks[0].Content != "Short meeting. Nothing to split." {
		t.Errorf("Content = %q", chunks[0].Content)
	}
}

func TestSplitEmpty(t *testing.T) {
	if chunks := Split("", DefaultOptions()); chunks != nil {
		t.Errorf("got %v, want nil", chunks)
	}
}

func TestSplitCarriesOverlap(t *testing.T) {
	text := "One one one. Two two two. Three three three."
	chunks := Split(text, Options{ChunkSize: 25, Overlap: 15})

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
	}
	if chunks[0].Content != "One one one. Two two two." {
		t.Errorf("chunk 0 = %q", chunks[0].Content)
	}
	// The last whole sentence of chunk 0 fits the overlap budget and must
	// open chunk 1.
	if !strings.HasPrefix(chunks[1].Content, "Two two two.") {
		t.Errorf("chunk 1 = %q, want prefix %q", chunks[1].Content, "Two two two.")
	}
	if !strings.HasSuffix(chunks[1].Content, "Three three three.") {
		t.Errorf("chunk 1 = %q, want suffix %q", chunks[1].Content, "Three three three.")
	}
}

func TestSplitZeroOverlap(t *testing.T) {
	text := "One one one. Two two two. Three three three."
	chunks := Split(text, Options{ChunkSize: 25, Overlap: 0})

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
	}
	if strings.Contains(chunks[1].Content, "Two two two.") {
		t.Errorf("chunk 1 = %q, overlap leaked with Overlap=0", chunks[1].Content)
	}
}

func TestSplitIndexesContiguous(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("This sentence pads out the transcript with routine detail. ")
	}
	chunks := Split(sb.String(), Options{ChunkSize: 200, Overlap: 60})

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk[%d].Index = %d", i, c.Index)
		}
		if c.Content == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
	}
}
