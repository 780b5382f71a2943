package factory

import (
	"testing"

	"intituas-ai-be/pkg/llm/gemini"
	"intituas-ai-be/pkg/llm/ollama"
	"intituas-ai-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider(ProviderConfig{Provider: "gemini"})
	assert.Error(t, err)

	p, err = NewLLMProvider(ProviderConfig{Provider: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)

	p, err = NewLLMProvider(ProviderConfig{Provider: "huggingface", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	_, err = NewLLMProvider(ProviderConfig{Provider: "cohere"})
	assert.Error(t, err)
}
