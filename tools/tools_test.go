package tools_test

import (
	"testing"

	"github.com/marketlens/research-agent/tools"
)

type searchInput struct {
	Query string `json:"query" jsonschema_description:"Search keyword."`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Max results."`
}

func TestGenerateSchema_Struct(t *testing.T) {
	schema := tools.GenerateSchema[searchInput]()

	if schema["type"] != "object" {
		t.Fatalf("schema type: got %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", schema)
	}
	q, ok := props["query"].(map[string]any)
	if !ok || q["type"] != "string" {
		t.Fatalf("query property: got %v", props["query"])
	}
	if q["description"] != "Search keyword." {
		t.Fatalf("query description: got %v", q["description"])
	}
}

func TestToChatTools_Fields(t *testing.T) {
	defs := []tools.ToolDefinition{{
		Name:        "search-companies",
		Description: "Search companies by keyword.",
		Parameters:  tools.GenerateSchema[searchInput](),
	}}

	chatTools := tools.ToChatTools(defs)
	if len(chatTools) != 1 {
		t.Fatalf("tool count: got %d want 1", len(chatTools))
	}
	fn := chatTools[0].OfFunction
	if fn == nil {
		t.Fatal("expected function tool")
	}
	if fn.Function.Name != "search-companies" {
		t.Fatalf("name: got %q", fn.Function.Name)
	}
	if !fn.Function.Description.Valid() || fn.Function.Description.Value != "Search companies by keyword." {
		t.Fatalf("description: got %+v", fn.Function.Description)
	}
	if fn.Function.Parameters["type"] != "object" {
		t.Fatalf("parameters: got %v", fn.Function.Parameters)
	}
}
