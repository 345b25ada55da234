// Package analysis is the local transcript analysis engine used when no remote
// LLM provider is available. Every function is pure and total: any string,
// including the empty one, produces a result.
package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var stopWords = map[string]struct{}{}

func init() {
	for _, word := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
		"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
		"will", "would", "could", "should", "may", "might", "can", "this", "that", "these", "those",
		"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them", "my", "your",
		"his", "its", "our", "their", "mine", "yours", "ours", "theirs", "myself", "yourself",
		"himself", "herself", "itself", "ourselves", "yourselves", "themselves",
	} {
		stopWords[word] = struct{}{}
	}
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

func isStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// tokenize lowercases text and splits it on runs of whitespace.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// cleanWord keeps only ASCII letters, digits and underscores.
func cleanWord(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences splits on runs of sentence terminators and keeps the raw
// (untrimmed) pieces whose trimmed length exceeds minLen characters.
func splitSentences(text string, minLen int) []string {
	var sentences []string
	for _, piece := range strings.FieldsFunc(text, isTerminator) {
		if charLen(strings.TrimSpace(piece)) > minLen {
			sentences = append(sentences, piece)
		}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, piece := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(piece) != "" {
			paragraphs = append(paragraphs, piece)
		}
	}
	return paragraphs
}

func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

// excerpt returns the first n characters of s followed by an ellipsis.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
