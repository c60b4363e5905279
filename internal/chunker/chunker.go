package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Options struct {
	ChunkSize int // target chunk size in characters
	Overlap   int // max characters of whole trailing sentences carried into the next chunk
}

func DefaultOptions() Options {
	return Options{ChunkSize: 3000, Overlap: 500}
}

type Chunk struct {
	Content string
	Index   int
}

// Split packs sentences greedily into chunks of roughly ChunkSize characters.
// Whole sentences from the tail of each chunk, up to Overlap characters, are
// repeated at the start of the next chunk so retrieval keeps local context
// across chunk boundaries.
func Split(text string, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 3000
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentLen := 0

	flush := func() {
		content := strings.TrimSpace(strings.Join(current, " "))
		if content == "" {
			current = nil
			currentLen = 0
			return
		}
		chunks = append(chunks, Chunk{Content: content, Index: len(chunks)})

		// Seed the next chunk with the trailing sentences that fit the
		// overlap budget.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			l := utf8.RuneCountInString(current[i])
			if tailLen+l > opts.Overlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += l
		}
		current = tail
		currentLen = tailLen
	}

	for _, s := range sentences {
		l := utf8.RuneCountInString(s)
		if currentLen > 0 && currentLen+l > opts.ChunkSize {
			flush()
		}
		current = append(current, s)
		currentLen += l
	}

	if currentLen > 0 {
		content := strings.TrimSpace(strings.Join(current, " "))
		// The overlap seed alone is not a chunk: only emit if new material
		// was added since the last flush.
		if content != "" && (len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1].Content, content)) {
			chunks = append(chunks, Chunk{Content: content, Index: len(chunks)})
		}
	}

	return chunks
}

// SplitSentences splits after sentence-ending punctuation followed by
// whitespace and an uppercase letter. Approximate, but good enough for
// spoken-transcript text.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var sentences []string
	var current strings.Builder

	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+2 < len(runes) && unicode.IsSpace(runes[i+1]) && unicode.IsUpper(runes[i+2]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
