// Package capability wraps a chat model behind schema-constrained flows.
//
// Every flow renders a prompt from the catalogue, asks the model for a JSON
// reply, repairs it when needed and validates it against the flow's declared
// output schema. Anything that does not conform is reported as an error; the
// caller never sees a partially valid result.
package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"intituas-ai-be/pkg/llm"
)

var (
	// ErrMalformedOutput means the model reply could not be read as JSON.
	ErrMalformedOutput = errors.New("model output is not valid JSON")
	// ErrSchemaMismatch means the reply parsed but broke the declared schema.
	ErrSchemaMismatch = errors.New("model output does not match schema")
)

type GenerateAnswerInput struct {
	Question     string `json:"question"`
	ResearchMode bool   `json:"researchMode,omitempty"`
}

type DocumentAnswerInput struct {
	Question        string `json:"question"`
	DocumentContent string `json:"documentContent"`
	ResearchMode    bool   `json:"researchMode,omitempty"`
}

type AnswerOutput struct {
	Answer          string   `json:"answer"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
	Citations       []string `json:"citations,omitempty"`
}

type SuggestionsInput struct {
	DocumentContent string `json:"documentContent,omitempty"`
}

type SuggestionsOutput struct {
	Suggestions []string `json:"suggestions"`
}

type MindMapInput struct {
	DocumentContent string `json:"documentContent"`
}

type MindMapNode struct {
	Topic    string         `json:"topic"`
	Children []*MindMapNode `json:"children,omitempty"`
}

type MindMapOutput struct {
	MindMap *MindMapNode `json:"mindMap"`
}

// Capability is the generative answer service seen by the application.
type Capability interface {
	GenerateAnswer(ctx context.Context, in GenerateAnswerInput) (*AnswerOutput, error)
	GenerateAnswerFromDocument(ctx context.Context, in DocumentAnswerInput) (*AnswerOutput, error)
	GenerateSuggestions(ctx context.Context, in SuggestionsInput) (*SuggestionsOutput, error)
	GenerateMindMap(ctx context.Context, in MindMapInput) (*MindMapOutput, error)
}

// Observer is notified after every flow run.
type Observer func(flow string, elapsed time.Duration, err error)

type Option func(*Client)

// WithSchemaVariant toggles the answer output schemas.
func WithSchemaVariant(v SchemaVariant) Option {
	return func(c *Client) {
		c.variant = v
	}
}

// WithPromptCatalogue replaces the embedded YAML prompt catalogue.
func WithPromptCatalogue(src []byte) Option {
	return func(c *Client) {
		c.catalogue = src
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// Client implements Capability on top of an llm.LLMProvider.
type Client struct {
	provider  llm.LLMProvider
	variant   SchemaVariant
	catalogue []byte
	observer  Observer
	flows     map[string]*flow
}

var _ Capability = &Client{}

func NewClient(provider llm.LLMProvider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, errors.New("capability: llm provider is required")
	}

	c := &Client{
		provider: provider,
		variant:  VariantRich,
	}
	for _, opt := range opts {
		opt(c)
	}

	prompts, err := loadPrompts(c.catalogue)
	if err != nil {
		return nil, err
	}

	schemas := map[string]map[string]any{
		FlowGenerateAnswer:             answerSchema(c.variant, false),
		FlowGenerateAnswerFromDocument: answerSchema(c.variant, true),
		FlowGenerateSuggestions:        suggestionsSchema(),
		FlowGenerateMindMap:            mindMapSchema(),
	}

	c.flows = make(map[string]*flow, len(schemas))
	for name, schema := range schemas {
		compiled, err := compileSchema(schema)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", name, err)
		}
		c.flows[name] = &flow{
			name:     name,
			prompt:   prompts[name],
			schema:   compiled,
			provider: provider,
		}
	}

	return c, nil
}

// Variant reports the schema variant in effect.
func (c *Client) Variant() SchemaVariant {
	return c.variant
}

func (c *Client) GenerateAnswer(ctx context.Context, in GenerateAnswerInput) (*AnswerOutput, error) {
	var out AnswerOutput
	if err := c.run(ctx, FlowGenerateAnswer, in, &out); err != nil {
		return nil, err
	}
	out.Citations = nil
	c.trim(&out)
	return &out, nil
}

func (c *Client) GenerateAnswerFromDocument(ctx context.Context, in DocumentAnswerInput) (*AnswerOutput, error) {
	var out AnswerOutput
	if err := c.run(ctx, FlowGenerateAnswerFromDocument, in, &out); err != nil {
		return nil, err
	}
	c.trim(&out)
	return &out, nil
}

func (c *Client) GenerateSuggestions(ctx context.Context, in SuggestionsInput) (*SuggestionsOutput, error) {
	var out SuggestionsOutput
	if err := c.run(ctx, FlowGenerateSuggestions, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateMindMap(ctx context.Context, in MindMapInput) (*MindMapOutput, error) {
	var out MindMapOutput
	if err := c.run(ctx, FlowGenerateMindMap, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// trim drops fields the minimal schema does not declare.
func (c *Client) trim(out *AnswerOutput) {
	if c.variant == VariantMinimal {
		out.ConfidenceScore = nil
		out.Citations = nil
	}
}

func (c *Client) run(ctx context.Context, name string, in, out any) error {
	start := time.Now()
	err := c.flows[name].run(ctx, in, out)
	if c.observer != nil {
		c.observer(name, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
