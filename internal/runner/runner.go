package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/openai/openai-go/v2"

	"github.com/marketlens/research-agent/internal/telemetry"
	"github.com/marketlens/research-agent/internal/windowing"
	"github.com/marketlens/research-agent/tools"
)

// defaultTokenBudget bounds the estimated size of the send window when
// RA_TOKEN_BUDGET is unset.
const defaultTokenBudget = 24000

// maxCompletionTokens caps a single assistant reply.
const maxCompletionTokens = 2048

type Runner struct {
	Client *openai.Client
	Tools  []tools.ToolDefinition
}

func New(client *openai.Client, toolDefs []tools.ToolDefinition) *Runner {
	return &Runner{Client: client, Tools: toolDefs}
}

// RunOneStep sends the conversation and returns the assistant message plus
// tool-role result messages for any tool calls it carried. An empty result
// slice means the assistant settled on a final answer.
func (r *Runner) RunOneStep(ctx context.Context, model openai.ChatModel, conv []openai.ChatCompletionMessageParamUnion) (*openai.ChatCompletionMessage, []openai.ChatCompletionMessageParamUnion, error) {
	budget := defaultTokenBudget
	if v := os.Getenv("RA_TOKEN_BUDGET"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid RA_TOKEN_BUDGET %q: %w", v, err)
		}
		budget = b
	}

	// Prepare pair-safe, budgeted window
	counter := windowing.HeuristicCounter{}
	window, stats := windowing.PrepareSendWindow(conv, budget, counter)

	// Get turnID from context if present, else generate once for this call.
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              string(model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})

	if os.Getenv("RA_VERBOSE_WINDOW_LOGS") == "1" {
		fmt.Printf(
			"window: model=%s budget=%d est_total=%d groups_in=%d groups_skip=%d newest_over=%t\n",
			string(model), stats.Budget, stats.Total, stats.IncludedGroups, stats.SkippedGroups, stats.OverBudgetNewest,
		)
	}

	// Toolbox results are capped server-side, so the newest group should always
	// fit. If not, treat it as a misconfiguration and fail fast.
	if stats.OverBudgetNewest {
		return nil, nil, fmt.Errorf("windowing: newest group exceeds RA_TOKEN_BUDGET; increase the budget with headroom")
	}

	params := openai.ChatCompletionNewParams{
		Model:               model,
		MaxCompletionTokens: openai.Int(maxCompletionTokens),
		Messages:            window,
	}
	// Only expose tools when NOT in calibration mode
	if !telemetry.CalibrationModeEnabled() {
		params.Tools = tools.ToChatTools(r.Tools)
	}

	resp, err := r.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, nil, fmt.Errorf("model returned no choices")
	}
	msg := resp.Choices[0].Message

	toolResults := make([]openai.ChatCompletionMessageParamUnion, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		input := json.RawMessage(tc.Function.Arguments)
		toolResults = append(toolResults, r.execTool(ctx, tc.ID, tc.Function.Name, input))
	}
	return &msg, toolResults, nil
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) openai.ChatCompletionMessageParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)

	// Helper to emit a tool_exec event
	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	// Handle "tool not found" as an error result and emit telemetry
	if def == nil {
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return openai.ToolMessage("tool not found", id)
	}

	// Execute the tool
	resp, err := def.Function(ctx, input)
	if err != nil {
		// Emit a generic error string to avoid leaking raw payloads in telemetry
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		// Preserve the detailed message in the tool result returned to the model;
		// chat completions has no error flag, so the text itself reports it.
		return openai.ToolMessage("tool call failed: "+err.Error(), id)
	}
	outSize := len(resp)
	emit(time.Since(start).Milliseconds(), inSize, outSize, "")
	return openai.ToolMessage(resp, id)
}
