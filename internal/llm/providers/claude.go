package providers

import (
	"context"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nubit-transcribe/backend/internal/llm/contract"
	"nubit-transcribe/backend/internal/retry"
)

type ClaudeProvider struct {
	client  anthropic.Client
	config  *contract.ProviderConfig
	retrier retry.Retrier
	usage   usageTracker
}

func NewClaudeProvider(config *contract.ProviderConfig, opts ...option.RequestOption) *ClaudeProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(config.APIKey)}, opts...)
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &ClaudeProvider{
		client:  anthropic.NewClient(opts...),
		config:  config,
		retrier: retry.Retrier{Attempts: 3, Delay: 500 * time.Millisecond, Retryable: retryable},
	}
}

func (c *ClaudeProvider) Name() string { return "claude" }

func (c *ClaudeProvider) GetConfig() *contract.ProviderConfig { return c.config }

func (c *ClaudeProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	stats := c.usage.snapshot()
	return &stats, nil
}

func (c *ClaudeProvider) Analyze(ctx context.Context, transcript string) (*contract.AnalysisResult, error) {
	return c.complete(ctx, "analyze", BuildAnalysisPrompt(transcript))
}

func (c *ClaudeProvider) Complete(ctx context.Context, prompt string) (*contract.AnalysisResult, error) {
	return c.complete(ctx, "complete", prompt)
}

func (c *ClaudeProvider) complete(ctx context.Context, feature, prompt string) (*contract.AnalysisResult, error) {
	var response *anthropic.Message
	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()
	err := c.retrier.Do(ctx, func() error {
		start := time.Now()
		result, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.config.ModelName),
			MaxTokens:   int64(c.config.MaxTokens),
			Temperature: anthropic.Float(c.config.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return err
		}
		response = result
		c.usage.success(c.config, contract.UsageRecord{
			InputTokens:  int(result.Usage.InputTokens),
			OutputTokens: int(result.Usage.OutputTokens),
			TotalTokens:  int(result.Usage.InputTokens + result.Usage.OutputTokens),
			Latency:      time.Since(start),
			Feature:      feature,
		})
		return nil
	})
	if err != nil {
		c.usage.failure(feature, err)
		return nil, err
	}
	text := messageText(response)
	if text == "" {
		return nil, errEmptyResponse
	}
	return &contract.AnalysisResult{Provider: c.Name(), Model: c.config.ModelName, Text: text}, nil
}

func (c *ClaudeProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.ModelName),
		MaxTokens:   int64(32),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Respond with: OK")),
		},
	})
	return healthResult(start, err), err
}

func (c *ClaudeProvider) lastUsageRecord() contract.UsageRecord {
	return c.usage.lastUsageRecord()
}

func messageText(message *anthropic.Message) string {
	if message == nil {
		return ""
	}
	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
