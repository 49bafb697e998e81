package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities describes what a completion model accepts
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`

	// SupportsJSONMode means the provider can constrain output to a JSON object.
	// Models without it get the constraint as a prompt instruction instead.
	SupportsJSONMode bool `yaml:"supports_json_mode" json:"supports_json_mode"`

	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`
}

// ClampMaxTokens limits a requested output budget to what the model allows
func (m *ModelCapabilities) ClampMaxTokens(requested int) int {
	if m.MaxOutput > 0 && requested > m.MaxOutput {
		return m.MaxOutput
	}
	return requested
}

// ProviderCapabilities represents all models for a provider
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Default  string              `yaml:"default" json:"default"`
	Models   []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML keeps models in the order they appear in the file
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		Provider string                       `yaml:"provider"`
		Default  string                       `yaml:"default"`
		Models   map[string]ModelCapabilities `yaml:"models"`
	}
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	p.Provider = decoded.Provider
	p.Default = decoded.Default

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			id := modelsNode.Content[j].Value
			if model, ok := decoded.Models[id]; ok {
				model.ID = id
				p.Models = append(p.Models, model)
			}
		}
	}
	return nil
}
