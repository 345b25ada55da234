package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNoProviders  = errors.New("no LLM provider configured")
	ErrRemoteFailed = errors.New("all LLM providers failed")
)

const defaultConfigTTL = 5 * time.Minute

// Router resolves the provider chain and walks it in order.
type Router struct {
	factory *Factory
	store   ProviderStore
	cache   *cache
}

type cachedConfigs struct {
	configs []ProviderConfig
	expires time.Time
}

type cache struct {
	mu    sync.Mutex
	items map[string]cachedConfigs
	ttl   time.Duration
}

func newCache(ttl time.Duration) *cache {
	return &cache{items: map[string]cachedConfigs{}, ttl: ttl}
}

func (c *cache) get(key string) ([]ProviderConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok || time.Now().After(item.expires) {
		delete(c.items, key)
		return nil, false
	}
	return item.configs, true
}

func (c *cache) set(key string, configs []ProviderConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cachedConfigs{configs: configs, expires: time.Now().Add(c.ttl)}
}

func NewRouter(factory *Factory, store ProviderStore) *Router {
	return &Router{factory: factory, store: store, cache: newCache(defaultConfigTTL)}
}

// Providers returns the ordered provider chain. The list is cached for a
// few minutes so registry edits show up without a restart.
func (r *Router) Providers(ctx context.Context) ([]Provider, error) {
	configs, ok := r.cache.get("chain")
	if !ok {
		var err error
		configs, err = r.store.ListProviders(ctx)
		if err != nil {
			return nil, err
		}
		r.cache.set("chain", configs)
	}
	providers := make([]Provider, 0, len(configs))
	for i := range configs {
		if provider := r.factory.CreateProvider(&configs[i]); provider != nil {
			providers = append(providers, provider)
		}
	}
	return providers, nil
}

// Chain describes the provider chain as provider/model pairs.
func (r *Router) Chain(ctx context.Context) ([]string, error) {
	providers, err := r.Providers(ctx)
	if err != nil {
		return nil, err
	}
	chain := make([]string, len(providers))
	for i, provider := range providers {
		chain[i] = provider.Name() + "/" + provider.GetConfig().ModelName
	}
	return chain, nil
}

// AnalyzeRemote tries each provider in order; the first success wins.
func (r *Router) AnalyzeRemote(ctx context.Context, transcript string) (*AnalysisResult, error) {
	return r.walk(ctx, func(p Provider) (*AnalysisResult, error) {
		return p.Analyze(ctx, transcript)
	})
}

// Complete sends a raw prompt down the same chain.
func (r *Router) Complete(ctx context.Context, prompt string) (*AnalysisResult, error) {
	return r.walk(ctx, func(p Provider) (*AnalysisResult, error) {
		return p.Complete(ctx, prompt)
	})
}

func (r *Router) walk(ctx context.Context, call func(Provider) (*AnalysisResult, error)) (*AnalysisResult, error) {
	providers, err := r.Providers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	var errs []error
	for _, provider := range providers {
		result, err := call(provider)
		if err == nil {
			return result, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrRemoteFailed, errors.Join(errs...))
}

// AnalyzeWithFallback never fails: when the chain is empty or exhausted the
// local engine produces the report.
func (r *Router) AnalyzeWithFallback(ctx context.Context, transcript string) *Outcome {
	result, err := r.AnalyzeRemote(ctx, transcript)
	if err != nil {
		return localOutcome(transcript, err.Error())
	}
	return remoteOutcome(result)
}
