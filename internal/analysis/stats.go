package analysis

import "math"

// wordsPerMinute is the reading speed behind EstimatedReadingTime.
const wordsPerMinute = 200

type Stats struct {
	WordCount                int `json:"word_count" yaml:"word_count"`
	SentenceCount            int `json:"sentence_count" yaml:"sentence_count"`
	ParagraphCount           int `json:"paragraph_count" yaml:"paragraph_count"`
	AvgWordsPerSentence      int `json:"avg_words_per_sentence" yaml:"avg_words_per_sentence"`
	AvgSentencesPerParagraph int `json:"avg_sentences_per_paragraph" yaml:"avg_sentences_per_paragraph"`
	EstimatedReadingTime     int `json:"estimated_reading_time" yaml:"estimated_reading_time"`
}

// GenerateStats counts words, sentences and paragraphs. Paragraphs only feed
// these statistics.
func GenerateStats(text string) Stats {
	words := len(tokenize(text))
	sentences := len(splitSentences(text, 0))
	paragraphs := len(splitParagraphs(text))

	stats := Stats{
		WordCount:            words,
		SentenceCount:        sentences,
		ParagraphCount:       paragraphs,
		EstimatedReadingTime: (words + wordsPerMinute - 1) / wordsPerMinute,
	}
	if sentences > 0 {
		stats.AvgWordsPerSentence = int(math.Round(float64(words) / float64(sentences)))
	}
	if paragraphs > 0 {
		stats.AvgSentencesPerParagraph = int(math.Round(float64(sentences) / float64(paragraphs)))
	}
	return stats
}
