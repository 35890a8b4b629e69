// Package memory provides conversation checkpointing keyed by thread ID.
//
// A checkpoint is the full ordered message slice for one thread, including
// assistant tool calls and their tool-role results. Two savers implement the
// same interface: an in-memory one whose state lives for the process, and a
// SQLite-backed one for demos that should survive restarts.
package memory
