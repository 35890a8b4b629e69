package windowing

import (
	"fmt"
	"os"

	"github.com/openai/openai-go/v2"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of messages [Start, End) in the original slice.
// Kind indicates whether it is a singleton or a validated tool-call pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupBlocks groups messages into atomic units that preserve tool-call pairs.
// Invariants:
//   - A pair is an assistant message carrying tool calls followed immediately by
//     the contiguous run of tool-role messages answering those calls.
//   - Completeness: every tool call ID in the assistant message must appear as
//     the tool_call_id of one of the following tool messages, and no tool
//     message in the run may answer an ID the assistant never issued.
func GroupBlocks(msgs []openai.ChatCompletionMessageParamUnion) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		useIDs := toolCallIDs(msgs[i])
		if len(useIDs) > 0 {
			j := i + 1
			resultIDs := make(map[string]struct{})
			extra := false
			for j < len(msgs) {
				tm := msgs[j].OfTool
				if tm == nil {
					break
				}
				if _, ok := useIDs[tm.ToolCallID]; !ok {
					extra = true
					break
				}
				resultIDs[tm.ToolCallID] = struct{}{}
				j++
			}
			if !extra && j > i+1 && coversAll(resultIDs, useIDs) {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: j})
				i = j
				continue
			}
			// Reason-coded verbose logs (behind RA_VERBOSE_WINDOW_LOGS)
			switch {
			case extra:
				vlogf("exclude pair: reason=extra_results idx=%d", i)
			case j == i+1:
				vlogf("exclude pair: reason=not_followed_by_tool idx=%d", i)
			default:
				vlogf("exclude pair: reason=missing_results idx=%d", i)
			}
		}
		// Fallback: singleton
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// Helpers

// toolCallIDs returns the set of tool call IDs issued by an assistant message.
func toolCallIDs(m openai.ChatCompletionMessageParamUnion) map[string]struct{} {
	asst := m.OfAssistant
	if asst == nil || len(asst.ToolCalls) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(asst.ToolCalls))
	for _, tc := range asst.ToolCalls {
		if fn := tc.OfFunction; fn != nil && fn.ID != "" {
			ids[fn.ID] = struct{}{}
		}
	}
	return ids
}

// coversAll checks that every id in required is present in have.
func coversAll(have, required map[string]struct{}) bool {
	for id := range required {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// minimal verbose logging when RA_VERBOSE_WINDOW_LOGS=1
var verbose = os.Getenv("RA_VERBOSE_WINDOW_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Printf("[windowing] "+format+"\n", args...)
	}
}
