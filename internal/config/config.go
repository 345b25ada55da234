package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultWhisperURL     = "https://whisper-api-app-2025.azurewebsites.net/transcribe/"
	defaultAnthropicModel = "claude-3-5-sonnet-20241022"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultCohereModel    = "command"
)

type ProviderSettings struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type Config struct {
	Port           string
	FrontendOrigin string
	Environment    string
	LogLevel       string
	LogFormat      string

	TranscribeBackend  string
	TranscribeURL      string
	TranscribeModel    string
	TranscribeLanguage string
	MaxUploadBytes     int64

	LLMProviders []string
	Anthropic    ProviderSettings
	OpenAI       ProviderSettings
	Cohere       ProviderSettings
	Temperature  float64

	DatabaseURL string
	MasterKey   string
	RedisURL    string

	RateLimitPerMinute int
	TrustedProxies     []string
	JobTTL             time.Duration
	AnalysisCacheTTL   time.Duration
	Workers            int
	HealthInterval     time.Duration
}

// Load reads .env files when present and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),

		TranscribeBackend:  strings.ToLower(getEnv("TRANSCRIBE_BACKEND", "whisper")),
		TranscribeURL:      getEnv("TRANSCRIBE_URL", defaultWhisperURL),
		TranscribeModel:    getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		TranscribeLanguage: getEnv("TRANSCRIBE_LANGUAGE", "en"),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_MB", 100)) << 20,

		LLMProviders: splitList(getEnv("LLM_PROVIDERS", "anthropic,openai,cohere")),
		Anthropic: ProviderSettings{
			APIKey:    firstEnv("ANTHROPIC_API_KEY", "REACT_APP_ANTHROPIC_API_KEY"),
			Model:     getEnv("ANTHROPIC_MODEL", defaultAnthropicModel),
			MaxTokens: getInt("ANTHROPIC_MAX_TOKENS", 1024),
		},
		OpenAI: ProviderSettings{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnv("OPENAI_MODEL", defaultOpenAIModel),
			MaxTokens: getInt("OPENAI_MAX_TOKENS", 1024),
		},
		Cohere: ProviderSettings{
			APIKey:    os.Getenv("COHERE_API_KEY"),
			Model:     getEnv("COHERE_MODEL", defaultCohereModel),
			MaxTokens: getInt("COHERE_MAX_TOKENS", 1024),
		},
		Temperature: getFloat("LLM_TEMPERATURE", 0.3),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		MasterKey:   os.Getenv("MASTER_KEY"),
		RedisURL:    os.Getenv("REDIS_URL"),

		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 60),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
		JobTTL:             getDuration("JOB_TTL", time.Hour),
		AnalysisCacheTTL:   getDuration("ANALYSIS_CACHE_TTL", time.Hour),
		Workers:            getInt("WORKERS", 2),
		HealthInterval:     getDuration("LLM_HEALTH_INTERVAL", 5*time.Minute),
	}
	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
