package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"intituas-ai-be/pkg/llm"

	"github.com/kaptinlin/jsonrepair"
)

type flow struct {
	name     string
	prompt   *compiledPrompt
	schema   *outputSchema
	provider llm.LLMProvider
}

func (f *flow) run(ctx context.Context, in, out any) error {
	userPrompt, err := f.prompt.render(in)
	if err != nil {
		return fmt.Errorf("render prompt: %w", err)
	}

	messages := make([]llm.Message, 0, 2)
	if f.prompt.system != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: f.prompt.system})
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: userPrompt + "\n\n" + f.formatInstruction(),
	})

	raw, err := f.provider.Chat(ctx, messages,
		llm.WithJSONMode(),
		llm.WithTemperature(f.prompt.temperature),
	)
	if err != nil {
		return err
	}

	return decodeOutput(raw, f.schema, out)
}

func (f *flow) formatInstruction() string {
	return "Respond with ONLY a single JSON object that conforms to this JSON schema. No other text.\n" + f.schema.text
}

// decodeOutput turns a raw model reply into out, enforcing the schema.
func decodeOutput(raw string, schema *outputSchema, out any) error {
	payload := extractJSON(raw)
	if payload == "" {
		return ErrMalformedOutput
	}

	if !json.Valid([]byte(payload)) {
		repaired, err := jsonrepair.JSONRepair(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		payload = repaired
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := schema.validate(doc); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

// extractJSON strips markdown fences and surrounding chatter from a reply.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		// unterminated object, leave it to the repair step
		return s[start:]
	}
	return s[start : end+1]
}
