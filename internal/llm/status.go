package llm

import (
	"strings"

	"nubit-transcribe/backend/internal/llm/providers"
)

type KeyState string

const (
	StatusMissing KeyState = "missing"
	StatusReady   KeyState = "ready"
	StatusInvalid KeyState = "invalid"
	StatusWorking KeyState = "working"
)

const placeholderKey = "your_anthropic_api_key_here"

var keyPrefixes = map[string]string{
	"anthropic": "sk-ant-",
	"openai":    "sk-",
}

// KeyStatus classifies an API key by its shape alone. Providers without a
// known prefix are ready whenever a key is present.
func KeyStatus(provider, apiKey string) KeyState {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || apiKey == placeholderKey || strings.HasPrefix(apiKey, "your_") {
		return StatusMissing
	}
	prefix, ok := keyPrefixes[NormalizeName(provider)]
	if ok && !strings.HasPrefix(apiKey, prefix) {
		return StatusInvalid
	}
	return StatusReady
}

// StatusAfterCheck refines a ready key with the outcome of a live call.
func StatusAfterCheck(state KeyState, err error) KeyState {
	if state != StatusReady {
		return state
	}
	if err == nil {
		return StatusWorking
	}
	if providers.IsAuthError(err) {
		return StatusInvalid
	}
	return StatusReady
}

// MaskKey shows the first and last characters of a key.
func MaskKey(apiKey string) string {
	if len(apiKey) <= 19 {
		return strings.Repeat("*", len(apiKey))
	}
	return apiKey[:15] + "..." + apiKey[len(apiKey)-4:]
}
