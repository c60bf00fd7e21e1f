package summary

import (
	"unicode"
	"unicode/utf8"

	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// sentence is a span of the source text, in byte offsets
type sentence struct {
	start int
	end   int
}

// Split divides text into sentence-aligned chunks of at most maxChunkSize characters.
// Sentences are accumulated greedily; a sentence longer than the limit becomes its own chunk.
// Every chunk is an exact substring of text.
func Split(text string, maxChunkSize int) []model.TextChunk {
	if maxChunkSize < 1 {
		maxChunkSize = 1
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []model.TextChunk
	start, end := sentences[0].start, sentences[0].end
	length := utf8.RuneCountInString(text[start:end])

	for _, s := range sentences[1:] {
		// Extending covers the separating whitespace as well as the sentence
		extended := length + utf8.RuneCountInString(text[end:s.end])
		if extended > maxChunkSize {
			chunks = append(chunks, model.TextChunk{Index: len(chunks), Content: text[start:end]})
			start, end = s.start, s.end
			length = utf8.RuneCountInString(text[start:end])
			continue
		}
		end = s.end
		length = extended
	}

	return append(chunks, model.TextChunk{Index: len(chunks), Content: text[start:end]})
}

// splitSentences finds sentences ending in '.', '!' or '?' followed by whitespace.
// The punctuation stays with its sentence and surrounding whitespace belongs to no sentence.
func splitSentences(text string) []sentence {
	var sentences []sentence

	start := -1
	prevTerminal := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 && prevTerminal {
				sentences = append(sentences, sentence{start: start, end: i})
				start = -1
			}
			prevTerminal = false
			continue
		}
		if start < 0 {
			start = i
		}
		prevTerminal = r == '.' || r == '!' || r == '?'
	}

	if start >= 0 {
		sentences = append(sentences, sentence{start: start, end: trimRightSpace(text, len(text))})
	}
	return sentences
}

// trimRightSpace returns the offset just after the last non-space rune before end
func trimRightSpace(text string, end int) int {
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return end
}
