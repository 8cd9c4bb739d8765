// File path: internal/report/chunker.go
package report

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkLen bounds a chunk when the caller passes no limit.
const DefaultMaxChunkLen = 4000

var (
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)
	// Go's RE2 has no lookbehind, so sentence boundaries are located as
	// cut points after terminal punctuation followed by whitespace.
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
)

// Chunk splits text into segments of at most maxLen characters along
// paragraph boundaries, re-splitting oversized paragraphs by sentence. A
// single sentence longer than maxLen becomes its own oversized chunk; the
// splitter never cuts below sentence granularity. Pure and deterministic.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
	}
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		if paragraph == "" {
			continue
		}
		if len(paragraph) > maxLen {
			flush()
			chunks = append(chunks, packSentences(splitSentences(paragraph), maxLen)...)
			continue
		}
		switch {
		case current.Len() == 0:
			current.WriteString(paragraph)
		case current.Len()+2+len(paragraph) <= maxLen:
			current.WriteString("\n\n")
			current.WriteString(paragraph)
		default:
			flush()
			current.WriteString(paragraph)
		}
	}
	flush()
	return chunks
}

func splitSentences(paragraph string) []string {
	locs := sentenceBoundary.FindAllStringIndex(paragraph, -1)
	if len(locs) == 0 {
		return []string{paragraph}
	}
	sentences := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		end := loc[0] + 1
		if end > start {
			sentences = append(sentences, paragraph[start:end])
		}
		start = loc[1]
	}
	if start < len(paragraph) {
		sentences = append(sentences, paragraph[start:])
	}
	return sentences
}

func packSentences(sentences []string, maxLen int) []string {
	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
	}
	for _, sentence := range sentences {
		if len(sentence) > maxLen {
			flush()
			chunks = append(chunks, sentence)
			continue
		}
		switch {
		case current.Len() == 0:
			current.WriteString(sentence)
		case current.Len()+1+len(sentence) <= maxLen:
			current.WriteString(" ")
			current.WriteString(sentence)
		default:
			flush()
			current.WriteString(sentence)
		}
	}
	flush()
	return chunks
}
