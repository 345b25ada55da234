package analysis

import (
	"fmt"
	"strings"
)

// RenderMarkdown formats a report with Summary, Topic Analysis, Key Moments,
// Potential Anomalies and Statistics sections.
func RenderMarkdown(report *Report) string {
	if report == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", report.Summary)

	b.WriteString("## Topic Analysis\n\n")
	fmt.Fprintf(&b, "**Overall sentiment:** %s\n\n", report.TopicModeling.Sentiment)
	if len(report.TopicModeling.Keywords) == 0 {
		b.WriteString("No significant keywords found.\n\n")
	} else {
		b.WriteString("**Top keywords:**\n\n")
		for _, kw := range report.TopicModeling.Keywords {
			fmt.Fprintf(&b, "- %s (%d)\n", kw.Word, kw.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Key Moments\n\n")
	if len(report.KeyMoments) == 0 {
		b.WriteString("No key moments identified.\n\n")
	} else {
		for i, moment := range report.KeyMoments {
			fmt.Fprintf(&b, "%d. **Sentence %d** (score %d): %s\n", i+1, moment.Position, moment.Score, moment.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Potential Anomalies\n\n")
	if len(report.Anomalies) == 0 {
		b.WriteString("No anomalies detected.\n\n")
	} else {
		for _, anomaly := range report.Anomalies {
			fmt.Fprintf(&b, "- **%s** (sentence %d): %s\n  > %s\n", anomaly.Type, anomaly.Position, anomaly.Description, anomaly.Text)
		}
		b.WriteString("\n")
	}

	stats := report.Statistics
	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- Words: %d\n", stats.WordCount)
	fmt.Fprintf(&b, "- Sentences: %d\n", stats.SentenceCount)
	fmt.Fprintf(&b, "- Paragraphs: %d\n", stats.ParagraphCount)
	fmt.Fprintf(&b, "- Average words per sentence: %d\n", stats.AvgWordsPerSentence)
	fmt.Fprintf(&b, "- Average sentences per paragraph: %d\n", stats.AvgSentencesPerParagraph)
	fmt.Fprintf(&b, "- Estimated reading time: %d min\n\n", stats.EstimatedReadingTime)

	fmt.Fprintf(&b, "_%s_\n", report.Note)
	return b.String()
}
