package analysis

// Sentiment is the overall polarity of a transcript.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic", "awesome", "perfect",
	"love", "like", "enjoy", "happy", "pleased", "satisfied", "delighted", "thrilled",
	"success", "successful", "achievement", "accomplish", "win", "victory", "triumph",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "horrible", "worst", "hate", "dislike", "angry", "frustrated",
	"disappointed", "sad", "upset", "annoyed", "problem", "issue", "error", "fail", "failure",
	"wrong", "difficult", "hard", "impossible", "never", "nothing", "nobody",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// DetectSentiment counts lexicon matches and classifies the positive ratio.
// Ratios inside [0.4, 0.6] are Neutral.
func DetectSentiment(text string) Sentiment {
	positive, negative := 0, 0
	for _, token := range tokenize(text) {
		word := cleanWord(token)
		if _, ok := positiveWords[word]; ok {
			positive++
		}
		if _, ok := negativeWords[word]; ok {
			negative++
		}
	}
	return classify(positive, negative)
}

func classify(positive, negative int) Sentiment {
	total := positive + negative
	if total == 0 {
		return Neutral
	}
	ratio := float64(positive) / float64(total)
	switch {
	case ratio > 0.6:
		return Positive
	case ratio < 0.4:
		return Negative
	default:
		return Neutral
	}
}
