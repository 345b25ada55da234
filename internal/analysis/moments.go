package analysis

import (
	"sort"
	"strings"
)

const (
	maxKeyMoments   = 5
	minMomentLength = 10
	minMomentScore  = 2
)

var (
	questionWords  = []string{"what", "when", "where", "who", "why", "how"}
	importantWords = []string{"important", "significant", "key", "main", "primary", "crucial", "essential"}
	actionWords    = []string{"decided", "concluded", "agreed", "announced", "declared", "stated"}
)

// KeyMoment is a salient sentence. Position is 1-based among the sentences
// long enough to be considered.
type KeyMoment struct {
	Text     string `json:"text" yaml:"text"`
	Position int    `json:"position" yaml:"position"`
	Score    int    `json:"score" yaml:"score"`
}

// ExtractKeyMoments scores sentences with keyword heuristics and returns the
// five highest, earlier sentences first on equal scores.
func ExtractKeyMoments(text string) []KeyMoment {
	moments := []KeyMoment{}
	for i, sentence := range splitSentences(text, minMomentLength) {
		score := scoreSentence(sentence)
		if score < minMomentScore {
			continue
		}
		moments = append(moments, KeyMoment{
			Text:     strings.TrimSpace(sentence),
			Position: i + 1,
			Score:    score,
		})
	}
	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Score > moments[j].Score
	})
	if len(moments) > maxKeyMoments {
		moments = moments[:maxKeyMoments]
	}
	return moments
}

// scoreSentence matches by substring, so "key" also hits "monkey".
func scoreSentence(sentence string) int {
	lower := strings.ToLower(sentence)
	score := 0
	if containsAny(lower, questionWords) {
		score += 2
	}
	if containsAny(lower, importantWords) {
		score += 3
	}
	if containsAny(lower, actionWords) {
		score += 2
	}
	if charLen(sentence) > 100 {
		score++
	}
	if strings.Contains(lower, "because") || strings.Contains(lower, "therefore") {
		score++
	}
	return score
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
