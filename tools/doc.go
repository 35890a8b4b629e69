// Package tools defines tool contracts for the agent.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive a JSON schema from a Go struct.
//   - FromToolset: hydrate definitions from a toolbox server manifest.
//   - Invariant: an assistant tool call and its tool-role result stay adjacent
//     within a turn.
package tools
