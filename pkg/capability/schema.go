package capability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// SchemaVariant selects which output fields the answer flows declare.
type SchemaVariant string

const (
	// VariantRich declares confidenceScore (and citations for documents).
	VariantRich SchemaVariant = "rich"
	// VariantMinimal declares only the answer text.
	VariantMinimal SchemaVariant = "minimal"
)

// ParseSchemaVariant maps a config value onto a variant, defaulting to rich.
func ParseSchemaVariant(s string) (SchemaVariant, error) {
	switch SchemaVariant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantRich:
		return VariantRich, nil
	case VariantMinimal:
		return VariantMinimal, nil
	default:
		return "", fmt.Errorf("unknown schema variant %q", s)
	}
}

var confidenceProperty = map[string]any{
	"type":        "number",
	"minimum":     0,
	"maximum":     100,
	"description": "A score from 0 to 100 representing the confidence in the answer.",
}

var citationsProperty = map[string]any{
	"type":        "array",
	"items":       map[string]any{"type": "string"},
	"description": "A list of direct quotes from the document that support the answer.",
}

func answerSchema(variant SchemaVariant, withCitations bool) map[string]any {
	props := map[string]any{
		"answer": map[string]any{"type": "string", "minLength": 1, "description": "The answer to the question."},
	}
	required := []string{"answer"}

	if variant == VariantRich {
		props["confidenceScore"] = confidenceProperty
		required = append(required, "confidenceScore")
		if withCitations {
			props["citations"] = citationsProperty
			required = append(required, "citations")
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func suggestionsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "An array of 3-4 suggested questions.",
			},
		},
		"required": []string{"suggestions"},
	}
}

func mindMapSchema() map[string]any {
	return map[string]any{
		"$defs": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{"type": "string", "description": "The main topic of this node."},
					"children": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/$defs/node"},
					},
				},
				"required": []string{"topic"},
			},
		},
		"type": "object",
		"properties": map[string]any{
			"mindMap": map[string]any{"$ref": "#/$defs/node"},
		},
		"required": []string{"mindMap"},
	}
}

// outputSchema is a compiled JSON schema plus its JSON text for prompting.
type outputSchema struct {
	compiled *jsonschema.Schema
	text     string
}

func compileSchema(schema map[string]any) (*outputSchema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiled, err := jsonschema.NewCompiler().Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON Schema: %w", err)
	}

	return &outputSchema{compiled: compiled, text: string(raw)}, nil
}

func (s *outputSchema) validate(data any) error {
	result := s.compiled.Validate(data)
	if result.IsValid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for field, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Message))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
}
