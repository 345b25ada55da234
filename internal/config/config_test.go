package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_ORIGIN", "TRANSCRIBE_URL", "LLM_PROVIDERS", "MAX_UPLOAD_MB", "JOB_TTL"} {
		t.Setenv(key, "")
	}
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.TranscribeURL != defaultWhisperURL {
		t.Fatalf("unexpected transcribe url %s", cfg.TranscribeURL)
	}
	if cfg.MaxUploadBytes != 100<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.MaxUploadBytes)
	}
	if len(cfg.LLMProviders) != 3 || cfg.LLMProviders[0] != "anthropic" {
		t.Fatalf("unexpected provider order %v", cfg.LLMProviders)
	}
	if cfg.JobTTL != time.Hour {
		t.Fatalf("unexpected job ttl %s", cfg.JobTTL)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LLM_PROVIDERS", "")
	os.Unsetenv("PORT")
	os.Unsetenv("LLM_PROVIDERS")

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nLLM_PROVIDERS= Cohere , openai ,,\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LLM_PROVIDERS")
	})

	cfg := Load(path)
	if cfg.Port != "9090" {
		t.Fatalf("expected port from env file, got %s", cfg.Port)
	}
	if len(cfg.LLMProviders) != 2 || cfg.LLMProviders[0] != "cohere" || cfg.LLMProviders[1] != "openai" {
		t.Fatalf("unexpected providers %v", cfg.LLMProviders)
	}
}

func TestAnthropicKeyFallsBackToFrontendName(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("REACT_APP_ANTHROPIC_API_KEY", "sk-ant-test")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Fatalf("expected frontend key fallback, got %q", cfg.Anthropic.APIKey)
	}
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	if cfg := Load(filepath.Join(t.TempDir(), "missing.env")); len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.0.2.7" {
		t.Fatalf("unexpected trusted proxies %v", cfg.TrustedProxies)
	}
}
