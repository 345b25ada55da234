package transcribe

import (
	"fmt"

	"nubit-transcribe/backend/internal/config"
)

// New returns the backend named by name, falling back to the configured one
// when name is empty.
func New(cfg config.Config, name string) (Backend, error) {
	if name == "" {
		name = cfg.TranscribeBackend
	}
	switch name {
	case "", "whisper":
		return NewWhisperBackend(cfg.TranscribeURL, nil), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai transcription needs OPENAI_API_KEY")
		}
		return NewOpenAIBackend(cfg.OpenAI.APIKey, cfg.TranscribeModel), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", name)
	}
}
