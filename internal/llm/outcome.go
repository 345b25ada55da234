package llm

import (
	"fmt"
	"strings"

	"nubit-transcribe/backend/internal/analysis"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// ParseMode accepts auto, local or remote; empty means auto.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeRemote:
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unknown analysis mode %q", value)
	}
}

// Outcome is an analysis from either side. Text is always Markdown; Report is
// set only for local analyses.
type Outcome struct {
	Source         Source           `json:"source" yaml:"source"`
	Provider       string           `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model          string           `json:"model,omitempty" yaml:"model,omitempty"`
	Text           string           `json:"text" yaml:"text"`
	Report         *analysis.Report `json:"report,omitempty" yaml:"report,omitempty"`
	FallbackReason string           `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
	Cached         bool             `json:"cached,omitempty" yaml:"cached,omitempty"`
}

func localOutcome(transcript, reason string) *Outcome {
	report := analysis.Analyze(transcript)
	return &Outcome{
		Source:         SourceLocal,
		Provider:       "local",
		Text:           analysis.RenderMarkdown(report),
		Report:         report,
		FallbackReason: reason,
	}
}

func remoteOutcome(result *AnalysisResult) *Outcome {
	return &Outcome{
		Source:   SourceRemote,
		Provider: result.Provider,
		Model:    result.Model,
		Text:     result.Text,
	}
}
