package analyzer

import (
	"regexp"
	"strings"
)

var (
	wordRe       = regexp.MustCompile(`[A-Za-z0-9']+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[.!?]+(?:\s|$)`)
	paragraphRe  = regexp.MustCompile(`\n\s*\n`)

	smartQuotes = strings.NewReplacer("’", "'", "“", `"`, "”", `"`)
)

// NormalizeText maps smart quotes to their ASCII equivalents and collapses
// every whitespace run, newlines included, to a single space. Idempotent.
func NormalizeText(s string) string {
	s = smartQuotes.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TokenizeWords extracts lowercase word tokens in document order.
func TokenizeWords(text string) []string {
	matches := wordRe.FindAllString(text, -1)
	words := make([]string, 0, len(matches))
	for _, w := range matches {
		words = append(words, strings.ToLower(w))
	}
	return words
}

// SplitSentences splits on runs of terminal punctuation followed by
// whitespace or end of text. Text with no terminal punctuation comes back
// as a single sentence.
func SplitSentences(text string) []string {
	parts := sentenceRe.Split(strings.TrimSpace(text), -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// SplitParagraphs splits raw text on blank-line boundaries and drops
// whitespace-only blocks.
func SplitParagraphs(text string) []string {
	parts := paragraphRe.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
