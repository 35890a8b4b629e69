package toolbox

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Toolset is the manifest returned by the toolbox server for a named toolset.
type Toolset struct {
	ServerVersion string                  `json:"serverVersion"`
	Tools         map[string]ToolManifest `json:"tools"`
}

// ToolManifest describes one remotely invocable tool.
type ToolManifest struct {
	Description  string              `json:"description"`
	Parameters   []ParameterManifest `json:"parameters"`
	AuthRequired []string            `json:"authRequired,omitempty"`
}

// ParameterManifest describes a single tool parameter. The toolbox wire
// format is not JSON Schema; InputSchema converts it.
type ParameterManifest struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Required    *bool              `json:"required,omitempty"`
	Items       *ParameterManifest `json:"items,omitempty"`
}

// IsRequired reports whether the parameter must be supplied. Older toolbox
// servers omit the flag entirely; those parameters are treated as required.
func (p ParameterManifest) IsRequired() bool {
	return p.Required == nil || *p.Required
}

// InputSchema converts the tool's parameter manifest into a JSON schema
// object suitable for a chat-completions function declaration.
func (t ToolManifest) InputSchema() (map[string]any, error) {
	props := orderedmap.New[string, *jsonschema.Schema]()
	required := make([]string, 0, len(t.Parameters))
	for _, p := range t.Parameters {
		props.Set(p.Name, p.schema())
		if p.IsRequired() {
			required = append(required, p.Name)
		}
	}
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	return schemaToMap(s)
}

func (p ParameterManifest) schema() *jsonschema.Schema {
	s := &jsonschema.Schema{Description: p.Description}
	switch p.Type {
	case "string":
		s.Type = "string"
	case "integer":
		s.Type = "integer"
	case "float":
		s.Type = "number"
	case "boolean":
		s.Type = "boolean"
	case "array":
		s.Type = "array"
		if p.Items != nil {
			s.Items = p.Items.schema()
		}
	case "map", "object":
		s.Type = "object"
	default:
		// Unknown manifest types degrade to string rather than failing the
		// whole toolset load.
		s.Type = "string"
	}
	return s
}

func schemaToMap(s *jsonschema.Schema) (map[string]any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return m, nil
}
