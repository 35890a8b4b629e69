package windowing

import (
	"unicode/utf8"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/packages/param"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m openai.ChatCompletionMessageParamUnion) int
	CountGroup(g Group, all []openai.ChatCompletionMessageParamUnion) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
//   - string content: rune count
//   - assistant tool calls: rune count of function name plus raw arguments
//   - plus a fixed per-message overhead for role and framing
type HeuristicCounter struct{}

// Fixed per-message overhead for deterministic counts; changing this requires updating the guard test.
const messageOverhead = 4

func (HeuristicCounter) CountMessage(m openai.ChatCompletionMessageParamUnion) int {
	total := messageOverhead
	switch {
	case m.OfSystem != nil:
		total += optRunes(m.OfSystem.Content.OfString)
	case m.OfUser != nil:
		total += optRunes(m.OfUser.Content.OfString)
	case m.OfAssistant != nil:
		total += optRunes(m.OfAssistant.Content.OfString)
		for _, tc := range m.OfAssistant.ToolCalls {
			if fn := tc.OfFunction; fn != nil {
				total += utf8.RuneCountInString(fn.Function.Name)
				total += utf8.RuneCountInString(fn.Function.Arguments)
			}
		}
	case m.OfTool != nil:
		total += optRunes(m.OfTool.Content.OfString)
	}
	// Non-string content parts contribute only the overhead in this minimal
	// heuristic; the agent never produces them.
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []openai.ChatCompletionMessageParamUnion) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func optRunes(o param.Opt[string]) int {
	if o.Valid() {
		return utf8.RuneCountInString(o.Value)
	}
	return 0
}
