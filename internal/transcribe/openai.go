package transcribe

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend uses the audio transcription endpoint of the OpenAI API. The
// SDK retries transient failures itself; the request body is streamed once.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, model string, opts ...option.RequestOption) *OpenAIBackend {
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIBackend{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAIBackend) Name() string { return "openai" }

func (o *OpenAIBackend) Transcribe(ctx context.Context, req Request) (*Transcript, error) {
	result, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(req.Body, req.Filename, "application/octet-stream"),
		Model:    openai.AudioModel(o.model),
		Language: openai.String(req.Language),
	})
	if err != nil {
		return nil, err
	}
	if result == nil || strings.TrimSpace(result.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	return &Transcript{Text: result.Text, Language: req.Language, Backend: o.Name()}, nil
}
