package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmpty(t *testing.T) {
	report := Analyze("")
	require.NotNil(t, report)

	assert.Empty(t, report.TopicModeling.Keywords)
	assert.Equal(t, Neutral, report.TopicModeling.Sentiment)
	assert.Empty(t, report.KeyMoments)
	assert.Empty(t, report.Anomalies)
	assert.Equal(t, Stats{}, report.Statistics)
	assert.Equal(t, "Basic Text Analysis (0 words)", report.Summary)
	assert.Equal(t, Note, report.Note)
}

func TestAnalyzeDegenerateInputs(t *testing.T) {
	inputs := []string{
		"   ",
		"...!!!???",
		"no delimiters at all in this string",
		"1234 5678 !!!",
		"\n\n\n",
		"ünïcödé wörds ønly hęrę",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Analyze(input) }, "input %q", input)
	}
}

func TestSentimentScenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"balanced", "This is great. This is terrible.", Neutral},
		{"all positive", "I love this. I love this. I love this.", Positive},
		{"all negative", "This is a terrible, awful problem.", Negative},
		{"no matches", "The weather report mentions clouds.", Neutral},
		{"empty", "", Neutral},
		{"punctuation stripped", "GREAT!!! (great) great?", Positive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSentiment(tt.text))
		})
	}
}

func TestClassifyBand(t *testing.T) {
	assert.Equal(t, Neutral, classify(0, 0))
	assert.Equal(t, Positive, classify(7, 3))
	assert.Equal(t, Neutral, classify(6, 4))
	assert.Equal(t, Neutral, classify(4, 6))
	assert.Equal(t, Negative, classify(3, 7))
	assert.Equal(t, Negative, classify(0, 1))
}

func TestExtractKeywords(t *testing.T) {
	text := "Budget budget BUDGET. Launch launch. Timeline, roadmap! The and this that them."
	keywords := ExtractKeywords(text)

	require.Len(t, keywords, 4)
	assert.Equal(t, Keyword{Word: "budget", Count: 3}, keywords[0])
	assert.Equal(t, Keyword{Word: "launch", Count: 2}, keywords[1])
	// ties keep discovery order
	assert.Equal(t, "timeline", keywords[2].Word)
	assert.Equal(t, "roadmap", keywords[3].Word)
}

func TestExtractKeywordsFiltersShortAndStopWords(t *testing.T) {
	keywords := ExtractKeywords("cat dog yourselves themselves the a an elephant")
	require.Len(t, keywords, 1)
	assert.Equal(t, "elephant", keywords[0].Word)
}

func TestExtractKeywordsLimit(t *testing.T) {
	var words []string
	for i := 0; i < 15; i++ {
		words = append(words, strings.Repeat(string(rune('a'+i)), 5))
	}
	keywords := ExtractKeywords(strings.Join(words, " ") + " " + words[14])

	require.Len(t, keywords, maxKeywords)
	assert.Equal(t, words[14], keywords[0].Word)
	for i := 1; i < len(keywords); i++ {
		assert.GreaterOrEqual(t, keywords[i-1].Count, keywords[i].Count)
	}
}

func TestKeyMomentsScoring(t *testing.T) {
	text := "We decided to ship the main feature on Monday. " +
		"Nothing much happened in the afternoon at all. " +
		"Why did the deploy break in staging yesterday? " +
		"It was slow because the cache was cold today."
	moments := ExtractKeyMoments(text)

	require.Len(t, moments, 2)
	assert.Equal(t, KeyMoment{Text: "We decided to ship the main feature on Monday", Position: 1, Score: 5}, moments[0])
	assert.Equal(t, KeyMoment{Text: "Why did the deploy break in staging yesterday", Position: 3, Score: 2}, moments[1])
}

func TestKeyMomentsSubstringMatch(t *testing.T) {
	// "show" contains "how", "monkey" contains "key"
	moments := ExtractKeyMoments("Please show the monkey to everyone.")
	require.Len(t, moments, 1)
	assert.Equal(t, 5, moments[0].Score)
}

func TestKeyMomentsLimitAndOrder(t *testing.T) {
	var sentences []string
	for i := 0; i < 8; i++ {
		sentences = append(sentences, "Who is responsible for item number "+strings.Repeat("x", i+1))
	}
	sentences = append(sentences, "This is the most important and crucial point")
	moments := ExtractKeyMoments(strings.Join(sentences, ". ") + ".")

	require.Len(t, moments, maxKeyMoments)
	assert.Equal(t, 9, moments[0].Position)
	assert.Equal(t, 3, moments[0].Score)
	for i := 1; i < len(moments); i++ {
		assert.Equal(t, i, moments[i].Position)
	}
	for _, m := range moments {
		assert.GreaterOrEqual(t, m.Score, minMomentScore)
		assert.Greater(t, charLen(m.Text), minMomentLength)
	}
}

func TestKeyMomentsLongSentenceBonus(t *testing.T) {
	sentence := "We agreed " + strings.Repeat("on many small details ", 5)
	require.Greater(t, charLen(sentence), 100)

	moments := ExtractKeyMoments(sentence)
	require.Len(t, moments, 1)
	assert.Equal(t, 3, moments[0].Score)
}

func TestShortSentenceIgnored(t *testing.T) {
	assert.Empty(t, ExtractKeyMoments("Hi."))
	assert.Empty(t, DetectAnomalies("Hi."))
}

func TestLongSentenceAnomaly(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 250; i++ {
		b.WriteString(string(rune('a' + i%26)))
	}
	sentence := b.String()[:250]

	anomalies := DetectAnomalies(sentence)
	require.Len(t, anomalies, 1)
	assert.Equal(t, LongSentence, anomalies[0].Type)
	assert.Equal(t, sentence[:100]+"...", anomalies[0].Text)
	assert.Equal(t, 1, anomalies[0].Position)
}

func TestRepetitiveAnomaly(t *testing.T) {
	anomalies := DetectAnomalies("word word word word word word word word word word word word")
	require.Len(t, anomalies, 1)
	assert.Equal(t, RepetitiveContent, anomalies[0].Type)
	assert.Equal(t, "word word word word word word word word word word word word...", anomalies[0].Text)
}

func TestShortFragmentAnomaly(t *testing.T) {
	anomalies := DetectAnomalies("Okay then. This sentence is comfortably longer than twenty characters.")
	require.Len(t, anomalies, 1)
	assert.Equal(t, Anomaly{
		Type:        ShortFragment,
		Text:        "Okay then",
		Position:    1,
		Description: "Unusually short sentence or fragment",
	}, anomalies[0])
}

func TestAnomaliesFirstFiveInOrder(t *testing.T) {
	text := strings.Repeat("Just a fragment. ", 7)
	anomalies := DetectAnomalies(text)

	require.Len(t, anomalies, maxAnomalies)
	for i, a := range anomalies {
		assert.Equal(t, i+1, a.Position)
	}
}

func TestAnomalyMultipleMatchesPerSentence(t *testing.T) {
	sentence := strings.TrimSpace(strings.Repeat("again and again ", 15))
	anomalies := DetectAnomalies(sentence)

	require.Len(t, anomalies, 2)
	assert.Equal(t, LongSentence, anomalies[0].Type)
	assert.Equal(t, RepetitiveContent, anomalies[1].Type)
	for _, a := range anomalies {
		assert.LessOrEqual(t, charLen(a.Text), excerptLength+3)
		assert.True(t, strings.HasSuffix(a.Text, "..."))
	}
}

func TestGenerateStats(t *testing.T) {
	text := "First sentence here. Second one!\n\n  \nThird paragraph sentence? Yes."
	stats := GenerateStats(text)

	assert.Equal(t, Stats{
		WordCount:                9,
		SentenceCount:            4,
		ParagraphCount:           2,
		AvgWordsPerSentence:      2,
		AvgSentencesPerParagraph: 2,
		EstimatedReadingTime:     1,
	}, stats)
}

func TestGenerateStatsReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
	}
	for _, tt := range tests {
		text := strings.TrimSpace(strings.Repeat("word ", tt.words))
		stats := GenerateStats(text)
		assert.Equal(t, tt.words, stats.WordCount)
		assert.Equal(t, tt.want, stats.EstimatedReadingTime, "words=%d", tt.words)
	}
}

func TestGenerateStatsRoundsHalfUp(t *testing.T) {
	// 5 words over 2 sentences
	stats := GenerateStats("one two three. four five.")
	assert.Equal(t, 3, stats.AvgWordsPerSentence)
}

func TestRenderMarkdownSections(t *testing.T) {
	text := "We decided the main budget is important. The budget was a problem because of delays. Hi there friend."
	md := RenderMarkdown(Analyze(text))

	for _, heading := range []string{"## Summary", "## Topic Analysis", "## Key Moments", "## Potential Anomalies", "## Statistics"} {
		assert.Contains(t, md, heading)
	}
	assert.Contains(t, md, "budget (2)")
	assert.Contains(t, md, Note)
	assert.Empty(t, RenderMarkdown(nil))
}

func TestRenderMarkdownEmptyReport(t *testing.T) {
	md := RenderMarkdown(Analyze(""))
	assert.Contains(t, md, "No significant keywords found.")
	assert.Contains(t, md, "No key moments identified.")
	assert.Contains(t, md, "No anomalies detected.")
}
