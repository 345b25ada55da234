package llm

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/metrics"
)

// ProviderStatus is what the status page shows for one provider.
type ProviderStatus struct {
	Provider  string             `json:"provider" yaml:"provider"`
	Model     string             `json:"model,omitempty" yaml:"model,omitempty"`
	Key       KeyState           `json:"key_status" yaml:"key_status"`
	MaskedKey string             `json:"masked_key,omitempty" yaml:"masked_key,omitempty"`
	Health    *HealthCheckResult `json:"health,omitempty" yaml:"health,omitempty"`
}

// KeyStatuses reports the shape of every configured provider key without
// calling out.
func KeyStatuses(cfg config.Config) []ProviderStatus {
	settings := map[string]config.ProviderSettings{
		"anthropic": cfg.Anthropic,
		"openai":    cfg.OpenAI,
		"cohere":    cfg.Cohere,
	}
	var out []ProviderStatus
	seen := map[string]bool{}
	for _, name := range cfg.LLMProviders {
		name = NormalizeName(name)
		s, ok := settings[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, ProviderStatus{
			Provider:  name,
			Model:     s.Model,
			Key:       KeyStatus(name, s.APIKey),
			MaskedKey: MaskKey(s.APIKey),
		})
	}
	return out
}

type HealthMonitor struct {
	Router   *Router
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Interval time.Duration

	mu      sync.RWMutex
	results map[string]*HealthCheckResult
}

func NewHealthMonitor(router *Router, m *metrics.Metrics, logger zerolog.Logger, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		Router:   router,
		Metrics:  m,
		Logger:   logger,
		Interval: interval,
		results:  map[string]*HealthCheckResult{},
	}
}

func (h *HealthMonitor) Run(ctx context.Context) {
	interval := h.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.CheckOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CheckOnce(ctx)
		}
	}
}

func (h *HealthMonitor) CheckOnce(ctx context.Context) {
	providers, err := h.Router.Providers(ctx)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("list providers for health check")
		return
	}
	for _, provider := range providers {
		name := NormalizeName(provider.Name())
		checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		result, err := provider.HealthCheck(checkCtx)
		cancel()
		if result == nil {
			result = &HealthCheckResult{Status: "error", Timestamp: time.Now().UTC()}
			if err != nil {
				result.ErrorMessage = err.Error()
			}
		}
		if result.Status == "ok" && result.Latency > 3*time.Second {
			result.Status = "slow"
		}
		if result.Status == "error" {
			h.Logger.Warn().Str("provider", name).Str("error", result.ErrorMessage).Msg("provider health check failed")
		}
		h.Metrics.SetProviderHealth(name, result.Status != "error")

		h.mu.Lock()
		h.results[name] = result
		h.mu.Unlock()
	}
}

// Annotate attaches the latest health result to each status and refines
// ready keys to working or invalid.
func (h *HealthMonitor) Annotate(statuses []ProviderStatus) []ProviderStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ProviderStatus, len(statuses))
	for i, status := range statuses {
		if result, ok := h.results[NormalizeName(status.Provider)]; ok {
			status.Health = result
			status.Key = StatusAfterCheck(status.Key, healthError(result))
		}
		out[i] = status
	}
	return out
}

type healthCheckError string

func (e healthCheckError) Error() string { return string(e) }

func healthError(result *HealthCheckResult) error {
	if result.Status == "error" {
		return healthCheckError(result.ErrorMessage)
	}
	return nil
}
