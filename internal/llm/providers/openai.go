package providers

import (
	"context"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"nubit-transcribe/backend/internal/llm/contract"
	"nubit-transcribe/backend/internal/retry"
)

type OpenAIProvider struct {
	client  openai.Client
	config  *contract.ProviderConfig
	retrier retry.Retrier
	usage   usageTracker
}

func NewOpenAIProvider(config *contract.ProviderConfig, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(config.APIKey)}, opts...)
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		config:  config,
		retrier: retry.Retrier{Attempts: 3, Delay: 400 * time.Millisecond, Retryable: retryable},
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) GetConfig() *contract.ProviderConfig { return o.config }

func (o *OpenAIProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	stats := o.usage.snapshot()
	return &stats, nil
}

func (o *OpenAIProvider) Analyze(ctx context.Context, transcript string) (*contract.AnalysisResult, error) {
	return o.complete(ctx, "analyze", BuildAnalysisPrompt(transcript))
}

func (o *OpenAIProvider) Complete(ctx context.Context, prompt string) (*contract.AnalysisResult, error) {
	return o.complete(ctx, "complete", prompt)
}

func (o *OpenAIProvider) complete(ctx context.Context, feature, prompt string) (*contract.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var resp *openai.ChatCompletion
	err := o.retrier.Do(ctx, func() error {
		start := time.Now()
		result, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(o.config.ModelName),
			Temperature: openai.Float(o.config.Temperature),
			MaxTokens:   openai.Int(int64(o.config.MaxTokens)),
			Messages: []openai.ChatCompletionMessageParamUnion{
				userMessage(prompt),
			},
		})
		if err != nil {
			return err
		}
		resp = result
		o.usage.success(o.config, contract.UsageRecord{
			InputTokens:  int(result.Usage.PromptTokens),
			OutputTokens: int(result.Usage.CompletionTokens),
			TotalTokens:  int(result.Usage.TotalTokens),
			Latency:      time.Since(start),
			Feature:      feature,
		})
		return nil
	})
	if err != nil {
		o.usage.failure(feature, err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errEmptyResponse
	}
	return &contract.AnalysisResult{Provider: o.Name(), Model: o.config.ModelName, Text: text}, nil
}

func (o *OpenAIProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	_, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.config.ModelName),
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			userMessage("Respond with: OK"),
		},
	})
	return healthResult(start, err), err
}

func (o *OpenAIProvider) lastUsageRecord() contract.UsageRecord {
	return o.usage.lastUsageRecord()
}

func userMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}
