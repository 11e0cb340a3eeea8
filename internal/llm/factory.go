package llm

import (
	"fmt"
	"os"
	"strings"
)

// EnvProvider forces a provider regardless of which API keys are set.
const EnvProvider = "REPOLENS_LLM_PROVIDER"

// Config holds generator configuration.
type Config struct {
	Provider string // "openrouter" or "ollama"; empty means auto-detect
	APIKey   string
	Model    string
	BaseURL  string // Ollama only
}

// New creates a generator with explicit configuration.
func New(cfg Config) (Generator, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = DetectProvider()
	}

	switch provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient(cfg.APIKey, cfg.Model)
	case ProviderOllama:
		return NewOllamaClient(cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// NewFromEnv creates a generator based on environment variables.
// Priority:
//  1. REPOLENS_LLM_PROVIDER (openrouter, ollama)
//  2. OPENROUTER_API_KEY present selects OpenRouter
//  3. Otherwise a local Ollama server
func NewFromEnv() (Generator, error) {
	provider := DetectProvider()
	switch provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient("", "")
	case ProviderOllama:
		return NewOllamaClient(os.Getenv(EnvOllamaModel), os.Getenv(EnvOllamaURL)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// DetectProvider returns the provider NewFromEnv would pick.
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvOpenRouterAPIKey) != "" {
		return ProviderOpenRouter
	}
	return ProviderOllama
}
