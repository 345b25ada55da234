package analysis

import "sort"

const maxKeywords = 10

// Keyword is a cleaned word and the number of times it occurs.
type Keyword struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// ExtractKeywords ranks meaningful words by frequency. Ties keep the order in
// which the words were first seen.
func ExtractKeywords(text string) []Keyword {
	counts := map[string]int{}
	var order []string
	for _, token := range tokenize(text) {
		word := cleanWord(token)
		if len(word) <= 3 || isStopWord(word) {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	keywords := make([]Keyword, 0, len(order))
	for _, word := range order {
		keywords = append(keywords, Keyword{Word: word, Count: counts[word]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}
