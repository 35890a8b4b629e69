// Package agent assembles the model client, the toolbox-backed tool
// definitions, and a checkpointer into a reactive research agent.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v2"

	"github.com/marketlens/research-agent/internal/runner"
	"github.com/marketlens/research-agent/internal/telemetry"
	"github.com/marketlens/research-agent/memory"
	"github.com/marketlens/research-agent/tools"
)

// SystemPrompt steers the model toward tool-driven research answers. It is
// installed once per thread, when the thread's checkpoint is created.
const SystemPrompt = `You are a helpful investment research assistant. Use the provided tools to search for companies,
people, industries, and news articles from 2023. Leverage prior tool outputs and conversation memory
to look up entities by ID or filter by attributes like location or sentiment. Use detailed tool outputs
for filtering or sorting as needed. Do not ask for user confirmations.`

// DemoQueries are the canned questions offered by the UI dropdown and used by
// the console verification command.
var DemoQueries = []string{
	"What industries deal with neurological implants?",
	"List 5 companies in those industries with descriptions, filtered by California.",
	"Who is working at these companies?",
	"What were the news articles in January 2023 with positive sentiment? List top 5.",
	"Summarize these articles.",
	"Which 3 companies were mentioned in these articles?",
	"Who are the board members at these companies?",
}

// maxSteps bounds the tool-call loop within a single user turn.
const maxSteps = 10

// Agent runs one conversation turn at a time, checkpointing per-thread state
// between turns.
type Agent struct {
	runner *runner.Runner
	model  openai.ChatModel
	saver  memory.Saver
}

// New assembles an agent from a chat-completions client, tool definitions,
// and a checkpointer.
func New(client *openai.Client, model openai.ChatModel, defs []tools.ToolDefinition, saver memory.Saver) *Agent {
	return &Agent{
		runner: runner.New(client, defs),
		model:  model,
		saver:  saver,
	}
}

// Invoke restores the thread's checkpoint, appends the user message, runs
// runner steps until the assistant settles on a text answer, checkpoints the
// updated conversation, and returns the final assistant text.
func (a *Agent) Invoke(ctx context.Context, threadID, text string) (string, error) {
	if threadID == "" {
		return "", errors.New("thread ID required")
	}

	ctx = telemetry.WithTurnID(ctx, "turn-"+uuid.NewString())
	telemetry.EmitQueryFeatures(ctx, text)

	conv, err := a.saver.Get(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("restore thread %s: %w", threadID, err)
	}
	if len(conv) == 0 {
		conv = append(conv, openai.SystemMessage(SystemPrompt))
	}
	conv = append(conv, openai.UserMessage(text))

	var lastText string
	settled := false
	for step := 0; step < maxSteps; step++ {
		msg, toolResults, err := a.runner.RunOneStep(ctx, a.model, conv)
		if err != nil {
			return "", err
		}
		conv = append(conv, msg.ToParam())
		if msg.Content != "" {
			lastText = msg.Content
		}
		if len(toolResults) == 0 {
			settled = true
			break
		}
		// Tool results follow their calls immediately, keeping pairs complete.
		conv = append(conv, toolResults...)
	}

	// Checkpoint even when the step limit was hit: the conversation ends on a
	// complete tool-call pair and the next turn can continue from it.
	if err := a.saver.Put(ctx, threadID, conv); err != nil {
		return "", fmt.Errorf("checkpoint thread %s: %w", threadID, err)
	}
	if !settled {
		return "", fmt.Errorf("agent did not settle after %d steps", maxSteps)
	}
	return lastText, nil
}
