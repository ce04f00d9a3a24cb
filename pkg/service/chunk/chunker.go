package chunk

import "strings"

// DefaultMaxSize is the chunking threshold in bytes. Documents at or below
// this size are stored as a single chunk.
const DefaultMaxSize = 1000

// Chunk is a bounded-size slice of a longer document. Each chunk after the
// first begins with the last sentence of its predecessor.
type Chunk struct {
	Text  string
	Index int
	Total int
}

// Split cuts text into chunks of at most maxSize bytes using sentence
// accumulation with a one-sentence overlap. Text at or below maxSize is
// returned unchanged as a single chunk.
func Split(text string, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(text) <= maxSize {
		return []Chunk{{Text: text, Index: 0, Total: 1}}
	}

	sentences := splitSentences(text)

	var parts []string
	var current []string
	currentLen := 0
	fresh := 0 // sentences in current not carried over as overlap

	flush := func() {
		if fresh == 0 {
			return
		}
		parts = append(parts, strings.Join(current, ""))
	}

	for _, sentence := range sentences {
		if currentLen > 0 && currentLen+len(sentence) > maxSize {
			flush()
			overlap := current[len(current)-1]
			current = []string{overlap}
			currentLen = len(overlap)
			fresh = 0
		}
		current = append(current, sentence)
		currentLen += len(sentence)
		fresh++
	}
	flush()

	chunks := make([]Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = Chunk{Text: part, Index: i, Total: len(parts)}
	}
	return chunks
}

// splitSentences splits text after terminal punctuation, keeping the
// punctuation and any following whitespace attached to the sentence so that
// concatenation reproduces the input exactly.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0
	runes := []rune(text)

	for i < len(runes) {
		c := runes[i]
		if c == '.' || c == '!' || c == '?' {
			// Consume repeated terminators ("...", "?!")
			for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
				i++
			}
			// Consume trailing whitespace into this sentence
			for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' || runes[i+1] == '\r') {
				i++
			}
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 1
		}
		i++
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}
