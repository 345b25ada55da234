package analysis

import "fmt"

// Note is attached to every local report.
const Note = "This analysis was performed using built-in text processing algorithms. For more advanced AI-powered insights, please configure the Anthropic API key."

type TopicModeling struct {
	Keywords  []Keyword `json:"keywords" yaml:"keywords"`
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`
}

// Report is the aggregate output of the local engine.
type Report struct {
	Summary       string        `json:"summary" yaml:"summary"`
	TopicModeling TopicModeling `json:"topic_modeling" yaml:"topic_modeling"`
	KeyMoments    []KeyMoment   `json:"key_moments" yaml:"key_moments"`
	Anomalies     []Anomaly     `json:"anomalies" yaml:"anomalies"`
	Statistics    Stats         `json:"statistics" yaml:"statistics"`
	Note          string        `json:"note" yaml:"note"`
}

// Analyze runs every analyzer over text. It cannot fail.
func Analyze(text string) *Report {
	stats := GenerateStats(text)
	return &Report{
		Summary: fmt.Sprintf("Basic Text Analysis (%d words)", stats.WordCount),
		TopicModeling: TopicModeling{
			Keywords:  ExtractKeywords(text),
			Sentiment: DetectSentiment(text),
		},
		KeyMoments: ExtractKeyMoments(text),
		Anomalies:  DetectAnomalies(text),
		Statistics: stats,
		Note:       Note,
	}
}
