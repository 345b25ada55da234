package llm

import (
	"strconv"
	"strings"
	"sync"

	"nubit-transcribe/backend/internal/llm/providers"
)

// Builder creates a provider from its configuration.
type Builder func(config *ProviderConfig) Provider

type Factory struct {
	mu        sync.Mutex
	builders  map[string]Builder
	instances map[string]Provider
}

func NewFactory() *Factory {
	f := &Factory{builders: map[string]Builder{}, instances: map[string]Provider{}}
	f.Register("anthropic", func(c *ProviderConfig) Provider { return providers.NewClaudeProvider(c) })
	f.Register("openai", func(c *ProviderConfig) Provider { return providers.NewOpenAIProvider(c) })
	f.Register("cohere", func(c *ProviderConfig) Provider { return providers.NewCohereProvider(c) })
	return f
}

// Register replaces the builder for a normalized provider name.
func (f *Factory) Register(name string, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[name] = builder
	f.instances = map[string]Provider{}
}

// CreateProvider returns a cached provider for config, or nil when the
// provider name is unknown.
func (f *Factory) CreateProvider(config *ProviderConfig) Provider {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.Join([]string{
		config.ProviderName, config.ModelName, config.BaseURL,
		strconv.FormatInt(config.ID, 10), keyFingerprint(config.APIKey),
	}, ":")
	if provider, ok := f.instances[key]; ok {
		return provider
	}

	builder, ok := f.builders[NormalizeName(config.ProviderName)]
	if !ok {
		return nil
	}
	provider := builder(config)
	f.instances[key] = provider
	return provider
}

// NormalizeName maps provider aliases onto anthropic, openai or cohere.
func NormalizeName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "claude", "anthropic":
		return "anthropic"
	case "openai", "azure_openai", "azureopenai":
		// OpenAI-compatible gateways are configured through base_url
		return "openai"
	case "cohere":
		return "cohere"
	default:
		return ""
	}
}

func keyFingerprint(apiKey string) string {
	if len(apiKey) <= 8 {
		return strconv.Itoa(len(apiKey))
	}
	return apiKey[len(apiKey)-8:]
}
