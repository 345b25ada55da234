package contract

import (
	"context"
	"time"
)

// Provider is a remote LLM that turns a transcript into a free-text analysis.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, transcript string) (*AnalysisResult, error)
	Complete(ctx context.Context, prompt string) (*AnalysisResult, error)
	HealthCheck(ctx context.Context) (*HealthCheckResult, error)
	GetConfig() *ProviderConfig
	GetUsage(ctx context.Context) (*UsageStats, error)
}

type ProviderConfig struct {
	ID              int64
	ProviderName    string
	APIKey          string
	ModelName       string
	BaseURL         string
	Temperature     float64
	MaxTokens       int
	CostPer1KInput  float64
	CostPer1KOutput float64
}

// AnalysisResult is whatever the provider replied; its format is not ours to
// control.
type AnalysisResult struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
}

type HealthCheckResult struct {
	Status       string        `json:"status"`
	Latency      time.Duration `json:"latency"`
	ErrorMessage string        `json:"error_message"`
	Timestamp    time.Time     `json:"timestamp"`
}

type UsageStats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	TotalCost          float64       `json:"total_cost"`
	AverageLatency     time.Duration `json:"average_latency"`
}

type UsageRecord struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	Latency      time.Duration
	Success      bool
	ErrorMessage string
	Feature      string
}

func (u UsageRecord) InputCost(costPer1K float64) float64 {
	return (float64(u.InputTokens) / 1000.0) * costPer1K
}

func (u UsageRecord) OutputCost(costPer1K float64) float64 {
	return (float64(u.OutputTokens) / 1000.0) * costPer1K
}

func (u UsageRecord) TotalCost(costIn, costOut float64) float64 {
	return u.InputCost(costIn) + u.OutputCost(costOut)
}
