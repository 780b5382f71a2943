package factory

import (
	"fmt"
	"time"

	"intituas-ai-be/pkg/llm"
	"intituas-ai-be/pkg/llm/gemini"
	"intituas-ai-be/pkg/llm/ollama"
	"intituas-ai-be/pkg/llm/openai"
)

// ProviderConfig carries everything any backend may need.
type ProviderConfig struct {
	Provider string // "ollama", "gemini", "openai", "huggingface"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return gemini.NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "openai":
		return openai.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "huggingface":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openai.HuggingFaceRouterURL
		}
		return openai.NewProvider(cfg.APIKey, baseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
