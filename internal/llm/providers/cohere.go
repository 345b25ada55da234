package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go"

	"nubit-transcribe/backend/internal/llm/contract"
	"nubit-transcribe/backend/internal/retry"
)

var errCohereClient = errors.New("cohere client not initialized")

type CohereProvider struct {
	client  *cohere.Client
	config  *contract.ProviderConfig
	retrier retry.Retrier
	usage   usageTracker
}

func NewCohereProvider(config *contract.ProviderConfig) *CohereProvider {
	client, _ := cohere.CreateClient(config.APIKey)
	return &CohereProvider{
		client:  client,
		config:  config,
		retrier: retry.Retrier{Attempts: 3, Delay: 400 * time.Millisecond, Retryable: retryable},
	}
}

func (c *CohereProvider) Name() string { return "cohere" }

func (c *CohereProvider) GetConfig() *contract.ProviderConfig { return c.config }

func (c *CohereProvider) GetUsage(ctx context.Context) (*contract.UsageStats, error) {
	stats := c.usage.snapshot()
	return &stats, nil
}

func (c *CohereProvider) Analyze(ctx context.Context, transcript string) (*contract.AnalysisResult, error) {
	return c.complete(ctx, "analyze", BuildAnalysisPrompt(transcript))
}

func (c *CohereProvider) Complete(ctx context.Context, prompt string) (*contract.AnalysisResult, error) {
	return c.complete(ctx, "complete", prompt)
}

// complete checks ctx between attempts; the cohere client has no context
// support of its own.
func (c *CohereProvider) complete(ctx context.Context, feature, prompt string) (*contract.AnalysisResult, error) {
	if c.client == nil {
		return nil, errCohereClient
	}
	var response *cohere.GenerateResponse
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	err := c.retrier.Do(ctx, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		maxTokens := uint(c.config.MaxTokens)
		temperature := c.config.Temperature
		result, err := c.client.Generate(cohere.GenerateOptions{
			Model:       c.config.ModelName,
			Prompt:      prompt,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return err
		}
		response = result
		c.usage.success(c.config, contract.UsageRecord{Latency: time.Since(start), Feature: feature})
		return nil
	})
	if err != nil {
		c.usage.failure(feature, err)
		return nil, err
	}
	if response == nil || len(response.Generations) == 0 {
		return nil, errEmptyResponse
	}
	text := strings.TrimSpace(response.Generations[0].Text)
	if text == "" {
		return nil, errEmptyResponse
	}
	return &contract.AnalysisResult{Provider: c.Name(), Model: c.config.ModelName, Text: text}, nil
}

func (c *CohereProvider) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	start := time.Now()
	if c.client == nil {
		return healthResult(start, errCohereClient), errCohereClient
	}
	maxTokens := uint(10)
	temperature := 0.0
	_, err := c.client.Generate(cohere.GenerateOptions{
		Model:       c.config.ModelName,
		Prompt:      "Respond with: OK",
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	return healthResult(start, err), err
}

func (c *CohereProvider) lastUsageRecord() contract.UsageRecord {
	return c.usage.lastUsageRecord()
}
