package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/marketlens/research-agent/internal/toolbox"
)

// FromToolset builds tool definitions from a loaded toolbox manifest,
// binding each handler to a remote invocation through the client.
// Definitions are sorted by name so tool ordering is deterministic.
func FromToolset(ts *toolbox.Toolset, client *toolbox.Client) ([]ToolDefinition, error) {
	defs := make([]ToolDefinition, 0, len(ts.Tools))
	for name, m := range ts.Tools {
		schema, err := m.InputSchema()
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", name, err)
		}
		toolName := name
		defs = append(defs, ToolDefinition{
			Name:        toolName,
			Description: m.Description,
			Parameters:  schema,
			Function: func(ctx context.Context, input json.RawMessage) (string, error) {
				return client.Invoke(ctx, toolName, input)
			},
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}
