package providers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"nubit-transcribe/backend/internal/llm/contract"
)

type statusErr int

func (s statusErr) Error() string   { return "status" }
func (s statusErr) StatusCode() int { return int(s) }

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt("hello world")
	for _, heading := range []string{"## Summary", "## Topic Analysis", "## Key Moments", "## Potential Anomalies", "## Statistics"} {
		if !strings.Contains(prompt, heading) {
			t.Fatalf("prompt missing %s", heading)
		}
	}
	if !strings.HasSuffix(prompt, "Transcript:\nhello world") {
		t.Fatalf("transcript not appended: %q", prompt[len(prompt)-40:])
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{statusErr(401), true},
		{statusErr(403), true},
		{statusErr(500), false},
		{errors.New("POST: 401 Unauthorized"), true},
		{errors.New("authentication_error: invalid x-api-key"), true},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := IsAuthError(tt.err); got != tt.want {
			t.Fatalf("IsAuthError(%v)=%v, expected %v", tt.err, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if retryable(statusErr(401)) {
		t.Fatal("auth errors should not be retried")
	}
	if !retryable(statusErr(429)) {
		t.Fatal("rate limits should be retried")
	}
	if !retryable(errors.New("timeout")) {
		t.Fatal("transient errors should be retried")
	}
}

func TestUsageTracker(t *testing.T) {
	var tracker usageTracker
	config := &contract.ProviderConfig{CostPer1KInput: 1, CostPer1KOutput: 2}
	tracker.success(config, contract.UsageRecord{InputTokens: 1000, OutputTokens: 500, Latency: 2 * time.Second})
	tracker.success(config, contract.UsageRecord{InputTokens: 0, OutputTokens: 0, Latency: 4 * time.Second})
	tracker.failure("analyze", errors.New("boom"))

	stats := tracker.snapshot()
	if stats.TotalRequests != 3 || stats.SuccessfulRequests != 2 || stats.FailedRequests != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.TotalCost != 2 {
		t.Fatalf("unexpected cost %v", stats.TotalCost)
	}
	if stats.AverageLatency != 3*time.Second {
		t.Fatalf("unexpected latency %s", stats.AverageLatency)
	}
	if tracker.lastUsageRecord().ErrorMessage != "boom" {
		t.Fatalf("expected last record to capture failure")
	}
}
