package capability

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultCatalogue []byte

const (
	FlowGenerateAnswer             = "generateAnswer"
	FlowGenerateAnswerFromDocument = "generateAnswerFromDocument"
	FlowGenerateSuggestions        = "generateSuggestions"
	FlowGenerateMindMap            = "generateMindMap"
)

// PromptDefinition is one entry of the prompt catalogue.
type PromptDefinition struct {
	System      string  `yaml:"system"`
	Prompt      string  `yaml:"prompt"`
	Temperature float64 `yaml:"temperature"`
}

type promptCatalogue struct {
	Flows map[string]PromptDefinition `yaml:"flows"`
}

type compiledPrompt struct {
	system      string
	temperature float64
	tmpl        *template.Template
}

// loadPrompts parses a YAML catalogue. A nil or empty source loads the embedded default.
func loadPrompts(src []byte) (map[string]*compiledPrompt, error) {
	if len(src) == 0 {
		src = defaultCatalogue
	}

	var cat promptCatalogue
	if err := yaml.Unmarshal(src, &cat); err != nil {
		return nil, fmt.Errorf("parse prompt catalogue: %w", err)
	}

	required := []string{
		FlowGenerateAnswer,
		FlowGenerateAnswerFromDocument,
		FlowGenerateSuggestions,
		FlowGenerateMindMap,
	}

	out := make(map[string]*compiledPrompt, len(required))
	for _, name := range required {
		def, ok := cat.Flows[name]
		if !ok || strings.TrimSpace(def.Prompt) == "" {
			return nil, fmt.Errorf("prompt catalogue is missing flow %q", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(def.Prompt)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		out[name] = &compiledPrompt{
			system:      def.System,
			temperature: def.Temperature,
			tmpl:        tmpl,
		}
	}
	return out, nil
}

func (p *compiledPrompt) render(input any) (string, error) {
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, input); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
