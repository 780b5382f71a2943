package gemini

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

func TestGeminiProvider_Chat(t *testing.T) {
	var got GeminiChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", srv.URL+"/", "gemini-test", time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
		{Role: llm.RoleAssistant, Content: "prior"},
		{Role: llm.RoleUser, Content: "q"},
	}, llm.WithJSONMode())

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be terse", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 2)
	assert.Equal(t, ChatMessageRoleModel, got.Contents[0].Role)
	assert.Equal(t, ChatMessageRoleUser, got.Contents[1].Role)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGeminiProvider_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeminiProvider("key", srv.URL, "", time.Second).Generate(context.Background(), "q")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
