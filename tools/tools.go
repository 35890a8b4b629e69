package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
)

// ToolDefinition binds a tool's declaration to its handler.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
	Function    func(ctx context.Context, input json.RawMessage) (string, error)
}

// GenerateSchema derives a JSON schema for a statically-typed tool input.
// Refs are inlined and additional properties rejected so the schema is
// self-contained for function declarations.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := json.Marshal(schema)
	if err != nil {
		panic(err) // reflection of a concrete struct type cannot fail to marshal
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	return m
}

// ToChatTools converts definitions into chat-completions function tools.
func ToChatTools(defs []ToolDefinition) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        d.Name,
			Description: openai.String(d.Description),
			Parameters:  openai.FunctionParameters(d.Parameters),
		}))
	}
	return out
}
