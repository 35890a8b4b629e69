// Package runner coordinates message exchange with the chat-completions API
// and dispatches tool calls to the toolbox-backed definitions.
//
// Invariant:
//   - an assistant message carrying tool calls is followed by the tool-role
//     messages answering those calls, keeping execution context adjacent
//     within a turn.
//
// Flow:
//
//	user(text) -> assistant(tool_calls) -> tool(results) -> assistant(text)
package runner
