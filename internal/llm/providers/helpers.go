package providers

import (
	"errors"
	"strings"
	"sync"
	"time"

	"nubit-transcribe/backend/internal/llm/contract"
)

var errEmptyResponse = errors.New("empty response")

const analysisPrompt = `You are analyzing the transcript of an audio or video recording.
Write a Markdown report with exactly these sections:

## Summary
A short overview of what the recording is about.

## Topic Analysis
The main topics and themes, and the overall sentiment (Positive, Negative or Neutral).

## Key Moments
Up to five of the most important statements, decisions or questions, quoted briefly.

## Potential Anomalies
Fragments, run-on passages, repetition or likely transcription errors worth reviewing.

## Statistics
Approximate length, number of speakers if discernible, and estimated reading time.

Transcript:
`

// BuildAnalysisPrompt returns the prompt sent to every provider.
func BuildAnalysisPrompt(transcript string) string {
	return analysisPrompt + transcript
}

func averageLatency(current time.Duration, new time.Duration, count int64) time.Duration {
	if count <= 1 {
		return new
	}
	return time.Duration(((current * time.Duration(count-1)) + new) / time.Duration(count))
}

// usageTracker records per-provider usage; providers are shared between
// concurrent requests so access is locked.
type usageTracker struct {
	mu         sync.Mutex
	stats      contract.UsageStats
	lastRecord contract.UsageRecord
}

func (u *usageTracker) success(config *contract.ProviderConfig, record contract.UsageRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	record.Success = true
	u.lastRecord = record
	u.stats.TotalRequests++
	u.stats.SuccessfulRequests++
	u.stats.TotalCost += record.TotalCost(config.CostPer1KInput, config.CostPer1KOutput)
	u.stats.AverageLatency = averageLatency(u.stats.AverageLatency, record.Latency, u.stats.SuccessfulRequests)
}

func (u *usageTracker) failure(feature string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.TotalRequests++
	u.stats.FailedRequests++
	u.lastRecord = contract.UsageRecord{Feature: feature, ErrorMessage: err.Error()}
}

func (u *usageTracker) snapshot() contract.UsageStats {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stats
}

func (u *usageTracker) lastUsageRecord() contract.UsageRecord {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastRecord
}

func healthResult(start time.Time, err error) *contract.HealthCheckResult {
	status := "ok"
	msg := ""
	if err != nil {
		status = "error"
		msg = err.Error()
	}
	return &contract.HealthCheckResult{
		Status:       status,
		Latency:      time.Since(start),
		ErrorMessage: msg,
		Timestamp:    time.Now().UTC(),
	}
}

// IsAuthError reports whether err looks like a rejected API key.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	type statusCoder interface {
		StatusCode() int
	}
	var sc statusCoder
	if errors.As(err, &sc) && (sc.StatusCode() == 401 || sc.StatusCode() == 403) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") || strings.Contains(msg, "authentication") || strings.Contains(msg, "invalid x-api-key")
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	type statusCoder interface {
		StatusCode() int
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode() == 429
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// retryable skips retries for rejected credentials.
func retryable(err error) bool {
	if isRateLimitError(err) {
		return true
	}
	return !IsAuthError(err)
}
