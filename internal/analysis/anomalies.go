package analysis

import "strings"

const (
	maxAnomalies     = 5
	minAnomalyLength = 5
	shortFragmentMax = 20
	longSentenceMin  = 200
	excerptLength    = 100
	repetitionWords  = 10
	distinctRatio    = 0.7
)

// AnomalyType labels the structural oddity found in a sentence.
type AnomalyType string

const (
	ShortFragment     AnomalyType = "Short Fragment"
	LongSentence      AnomalyType = "Long Sentence"
	RepetitiveContent AnomalyType = "Repetitive Content"
)

type Anomaly struct {
	Type        AnomalyType `json:"type" yaml:"type"`
	Text        string      `json:"text" yaml:"text"`
	Position    int         `json:"position" yaml:"position"`
	Description string      `json:"description" yaml:"description"`
}

// DetectAnomalies reports the first five anomalies in document order. A
// sentence can produce more than one entry.
func DetectAnomalies(text string) []Anomaly {
	anomalies := []Anomaly{}
	for i, sentence := range splitSentences(text, minAnomalyLength) {
		trimmed := strings.TrimSpace(sentence)
		length := charLen(trimmed)
		position := i + 1

		if length < shortFragmentMax && length > minAnomalyLength {
			anomalies = append(anomalies, Anomaly{
				Type:        ShortFragment,
				Text:        trimmed,
				Position:    position,
				Description: "Unusually short sentence or fragment",
			})
		}
		if length > longSentenceMin {
			anomalies = append(anomalies, Anomaly{
				Type:        LongSentence,
				Text:        excerpt(trimmed, excerptLength),
				Position:    position,
				Description: "Unusually long sentence",
			})
		}
		if isRepetitive(trimmed) {
			anomalies = append(anomalies, Anomaly{
				Type:        RepetitiveContent,
				Text:        excerpt(trimmed, excerptLength),
				Position:    position,
				Description: "High word repetition detected",
			})
		}
	}
	if len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}

func isRepetitive(sentence string) bool {
	words := tokenize(sentence)
	if len(words) <= repetitionWords {
		return false
	}
	distinct := map[string]struct{}{}
	for _, word := range words {
		distinct[word] = struct{}{}
	}
	return float64(len(distinct)) < float64(len(words))*distinctRatio
}
