package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the capability flows against a live Ollama. Set OLLAMA_BASE_URL and
// OLLAMA_MODEL to enable.
func newOllamaCapability(t *testing.T) *capability.Client {
	t.Helper()
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	model := os.Getenv("OLLAMA_MODEL")
	if baseURL == "" || model == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL or OLLAMA_MODEL not set")
	}

	c, err := capability.NewClient(ollama.NewOllamaProvider(baseURL, model, 3*time.Minute),
		capability.WithSchemaVariant(capability.VariantMinimal))
	require.NoError(t, err)
	return c
}

func TestOllama_DocumentAnswer(t *testing.T) {
	c := newOllamaCapability(t)

	out, err := c.GenerateAnswerFromDocument(context.Background(), capability.DocumentAnswerInput{
		Question:        "What colour is the sky on Tuesdays?",
		DocumentContent: "On Tuesdays the sky in Lumeria is green.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Answer)
	t.Logf("answer: %s (citations: %v)", out.Answer, out.Citations)
}

func TestOllama_MindMap(t *testing.T) {
	c := newOllamaCapability(t)

	out, err := c.GenerateMindMap(context.Background(), capability.MindMapInput{
		DocumentContent: "Photosynthesis turns light, water and carbon dioxide into glucose and oxygen inside chloroplasts.",
	})
	require.NoError(t, err)
	require.NotNil(t, out.MindMap)
	assert.NotEmpty(t, out.MindMap.Topic)
}
