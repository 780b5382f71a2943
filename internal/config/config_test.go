package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_TIMEOUT", "not-a-duration")
	t.Setenv("AI_DAILY_LIMIT", "25")
	t.Setenv("HISTORY_ASYNC", "true")

	cfg := Load()

	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, 120*time.Second, cfg.Ai.LLMTimeout)
	assert.Equal(t, 25, cfg.Usage.DailyLimit)
	assert.True(t, cfg.History.Async)
	assert.Equal(t, "rich", cfg.Ai.SchemaVariant)
}

func TestAPIKeyFor(t *testing.T) {
	cfg := &Config{Keys: APIKeys{GoogleGemini: "g", OpenAI: "o", HuggingFace: "h"}}

	assert.Equal(t, "g", cfg.APIKeyFor("gemini"))
	assert.Equal(t, "o", cfg.APIKeyFor("openai"))
	assert.Equal(t, "h", cfg.APIKeyFor("huggingface"))
	assert.Equal(t, "", cfg.APIKeyFor("ollama"))
}
