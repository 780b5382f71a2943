package capability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"intituas-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply    string
	err      error
	messages []llm.Message
	options  llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.messages = history
	f.options = *llm.Apply(llm.Options{}, opts...)
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (f *fakeProvider) userPrompt() string {
	for _, m := range f.messages {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}

func newTestClient(t *testing.T, p llm.LLMProvider, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(p, opts...)
	require.NoError(t, err)
	return c
}

func TestGenerateAnswerFromDocument(t *testing.T) {
	p := &fakeProvider{reply: `{"answer":"X is a letter.","confidenceScore":81,"citations":["X marks the spot"]}`}
	c := newTestClient(t, p)

	out, err := c.GenerateAnswerFromDocument(context.Background(), DocumentAnswerInput{
		Question:        "What is X?",
		DocumentContent: "X marks the spot.",
		ResearchMode:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "X is a letter.", out.Answer)
	require.NotNil(t, out.ConfidenceScore)
	assert.Equal(t, 81.0, *out.ConfidenceScore)
	assert.Equal(t, []string{"X marks the spot"}, out.Citations)

	assert.True(t, p.options.JSONMode)
	prompt := p.userPrompt()
	assert.Contains(t, prompt, "Question: What is X?")
	assert.Contains(t, prompt, "Document Content: X marks the spot.")
	assert.Contains(t, prompt, "research mode")
}

func TestGenerateAnswer_ResearchModeOff(t *testing.T) {
	p := &fakeProvider{reply: `{"answer":"42","confidenceScore":55}`}
	c := newTestClient(t, p)

	out, err := c.GenerateAnswer(context.Background(), GenerateAnswerInput{Question: "Meaning of life?"})
	require.NoError(t, err)
	assert.Equal(t, "42", out.Answer)
	assert.Nil(t, out.Citations)
	assert.NotContains(t, p.userPrompt(), "research mode")
	assert.NotContains(t, p.userPrompt(), "Document Content")
}

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr error
		want    string
	}{
		{
			name:  "plain json",
			reply: `{"answer":"ok","confidenceScore":10}`,
			want:  "ok",
		},
		{
			name:  "fenced json",
			reply: "```json\n{\"answer\":\"fenced\",\"confidenceScore\":99}\n```",
			want:  "fenced",
		},
		{
			name:  "chatter around json",
			reply: "Sure! Here it is: {\"answer\":\"chatty\",\"confidenceScore\":1} Hope it helps.",
			want:  "chatty",
		},
		{
			name:  "trailing comma repaired",
			reply: `{"answer":"repaired","confidenceScore":50,}`,
			want:  "repaired",
		},
		{
			name:    "confidence out of range",
			reply:   `{"answer":"too sure","confidenceScore":150}`,
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "blank answer",
			reply:   `{"answer":"","confidenceScore":50}`,
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "missing confidence",
			reply:   `{"answer":"unsure"}`,
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "no json at all",
			reply:   "I cannot help with that.",
			wantErr: ErrMalformedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeProvider{reply: tt.reply})
			out, err := c.GenerateAnswer(context.Background(), GenerateAnswerInput{Question: "q"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Answer)
		})
	}
}

func TestMinimalVariant(t *testing.T) {
	p := &fakeProvider{reply: `{"answer":"short","confidenceScore":70,"citations":["a"]}`}
	c := newTestClient(t, p, WithSchemaVariant(VariantMinimal))

	out, err := c.GenerateAnswerFromDocument(context.Background(), DocumentAnswerInput{
		Question:        "q",
		DocumentContent: "doc",
	})
	require.NoError(t, err)
	assert.Equal(t, "short", out.Answer)
	assert.Nil(t, out.ConfidenceScore)
	assert.Nil(t, out.Citations)
	assert.NotContains(t, p.userPrompt(), "confidenceScore")

	// minimal schema accepts a bare answer
	p.reply = `{"answer":"bare"}`
	out, err = c.GenerateAnswer(context.Background(), GenerateAnswerInput{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "bare", out.Answer)
}

func TestGenerateSuggestions_PromptPaths(t *testing.T) {
	p := &fakeProvider{reply: `{"suggestions":["a?","b?","c?","d?","e?"]}`}
	c := newTestClient(t, p)

	out, err := c.GenerateSuggestions(context.Background(), SuggestionsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 5, "count is passed through")
	general := p.userPrompt()
	assert.Contains(t, general, "general conversation starters")

	_, err = c.GenerateSuggestions(context.Background(), SuggestionsInput{DocumentContent: "some text"})
	require.NoError(t, err)
	grounded := p.userPrompt()
	assert.Contains(t, grounded, "some text")
	assert.NotEqual(t, general, grounded)
}

func TestGenerateMindMap(t *testing.T) {
	p := &fakeProvider{reply: `{"mindMap":{"topic":"Root","children":[{"topic":"A","children":[{"topic":"A1"}]},{"topic":"B"}]}}`}
	c := newTestClient(t, p)

	out, err := c.GenerateMindMap(context.Background(), MindMapInput{DocumentContent: "doc"})
	require.NoError(t, err)
	require.NotNil(t, out.MindMap)
	assert.Equal(t, "Root", out.MindMap.Topic)
	require.Len(t, out.MindMap.Children, 2)
	assert.Equal(t, "A1", out.MindMap.Children[0].Children[0].Topic)

	p.reply = `{"mindMap":{"children":[]}}`
	_, err = c.GenerateMindMap(context.Background(), MindMapInput{DocumentContent: "doc"})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestProviderErrorAndObserver(t *testing.T) {
	boom := errors.New("boom")
	var seen []string
	c := newTestClient(t, &fakeProvider{err: boom}, WithObserver(func(flow string, _ time.Duration, err error) {
		seen = append(seen, flow)
		assert.ErrorIs(t, err, boom)
	}))

	_, err := c.GenerateAnswer(context.Background(), GenerateAnswerInput{Question: "q"})
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), FlowGenerateAnswer))
	assert.Equal(t, []string{FlowGenerateAnswer}, seen)
}

func TestPromptCatalogueValidation(t *testing.T) {
	_, err := NewClient(&fakeProvider{}, WithPromptCatalogue([]byte("flows:\n  generateAnswer:\n    prompt: hi\n")))
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)

	_, err = ParseSchemaVariant("verbose")
	assert.Error(t, err)
	v, err := ParseSchemaVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantRich, v)
}
