package llm

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/crypto"
	"nubit-transcribe/backend/internal/db"
)

// ProviderStore lists the providers to try, in order.
type ProviderStore interface {
	ListProviders(ctx context.Context) ([]ProviderConfig, error)
}

// EnvStore serves providers configured through the environment.
type EnvStore struct {
	configs []ProviderConfig
}

func NewEnvStore(cfg config.Config) *EnvStore {
	settings := map[string]config.ProviderSettings{
		"anthropic": cfg.Anthropic,
		"openai":    cfg.OpenAI,
		"cohere":    cfg.Cohere,
	}
	store := &EnvStore{}
	seen := map[string]bool{}
	for _, name := range cfg.LLMProviders {
		name = NormalizeName(name)
		s, ok := settings[name]
		if !ok || seen[name] || KeyStatus(name, s.APIKey) != StatusReady {
			continue
		}
		seen[name] = true
		store.configs = append(store.configs, ProviderConfig{
			ProviderName: name,
			APIKey:       s.APIKey,
			ModelName:    s.Model,
			MaxTokens:    s.MaxTokens,
			Temperature:  cfg.Temperature,
		})
	}
	return store
}

func (s *EnvStore) ListProviders(ctx context.Context) ([]ProviderConfig, error) {
	out := make([]ProviderConfig, len(s.configs))
	copy(out, s.configs)
	return out, nil
}

// Store reads the optional llm_providers registry. API keys are stored
// encrypted with the master key.
type Store struct {
	DB        *db.Store
	MasterKey string
}

func NewStore(store *db.Store, masterKey string) *Store {
	return &Store{DB: store, MasterKey: masterKey}
}

func (s *Store) ListProviders(ctx context.Context) ([]ProviderConfig, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT id, provider_name, api_key, model_name, COALESCE(base_url, ''), temperature, max_tokens, cost_per_1k_input, cost_per_1k_output
		FROM llm_providers
		WHERE is_active=TRUE
		ORDER BY is_default DESC, priority ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	configs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ProviderConfig, error) {
		var cfg ProviderConfig
		err := row.Scan(&cfg.ID, &cfg.ProviderName, &cfg.APIKey, &cfg.ModelName, &cfg.BaseURL, &cfg.Temperature, &cfg.MaxTokens, &cfg.CostPer1KInput, &cfg.CostPer1KOutput)
		return cfg, err
	})
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if decrypted, err := crypto.Decrypt(s.MasterKey, configs[i].APIKey); err == nil {
			configs[i].APIKey = decrypted
		}
	}
	return configs, nil
}

// ChainStore concatenates stores, skipping any that fail, and drops
// duplicates by provider name and model.
type ChainStore []ProviderStore

func (c ChainStore) ListProviders(ctx context.Context) ([]ProviderConfig, error) {
	var all []ProviderConfig
	var errs []error
	seen := map[string]bool{}
	for _, store := range c {
		configs, err := store.ListProviders(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, cfg := range configs {
			key := NormalizeName(cfg.ProviderName) + ":" + cfg.ModelName
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, cfg)
		}
	}
	if len(all) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return all, nil
}

// NewProviderStore puts the Postgres registry, when present, ahead of the
// environment providers.
func NewProviderStore(cfg config.Config, registry *db.Store) ProviderStore {
	env := NewEnvStore(cfg)
	if registry == nil {
		return env
	}
	return ChainStore{NewStore(registry, cfg.MasterKey), env}
}
