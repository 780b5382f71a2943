package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intituas-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Role: "assistant", Content: `{"answer":"42"}`}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: "model", Content: "earlier"},
		{Role: llm.RoleUser, Content: "q"},
	}, llm.WithJSONMode(), llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"42"}`, out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestOllamaProvider_Errors(t *testing.T) {
	status := http.StatusInternalServerError
	body := `boom`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)

	_, err := p.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	status, body = http.StatusOK, `{"message":{"role":"assistant","content":""}}`
	_, err = p.Generate(context.Background(), "q")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
