package windowing

import "github.com/openai/openai-go/v2"

// Stats summarizes the result of window preparation.
//
// Fields:
//   - Total: estimated tokens for included messages (pinned system included).
//   - Budget: the input token budget used.
//   - IncludedGroups: number of groups included (the pinned system message is not a group).
//   - SkippedGroups: total groups minus IncludedGroups.
//   - OverBudgetNewest: true when the newest single group alone does not fit.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool
}

// PrepareSendWindow returns a window over msgs (oldest→newest) that fits within
// budget using the TokenCounter, without splitting groups.
//
// Rules:
//   - A leading system message is pinned: always sent and always counted.
//   - Include whole groups scanning newest→oldest while total ≤ budget.
//   - If the newest group alone does not fit next to the pinned prefix, return
//     an empty window and set OverBudgetNewest.
//   - If budget ≤ 0, return an empty window (OverBudgetNewest set when any groups exist).
func PrepareSendWindow(msgs []openai.ChatCompletionMessageParamUnion, budget int, c TokenCounter) ([]openai.ChatCompletionMessageParamUnion, Stats) {
	// Base cases
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	var pinned []openai.ChatCompletionMessageParamUnion
	rest := msgs
	pinnedCost := 0
	if msgs[0].OfSystem != nil {
		pinned = msgs[:1]
		rest = msgs[1:]
		pinnedCost = c.CountMessage(msgs[0])
	}

	groups := GroupBlocks(rest)

	// Handle no-capacity budget explicitly
	if budget <= 0 {
		stats := Stats{Budget: budget, IncludedGroups: 0, SkippedGroups: len(groups)}
		if len(groups) > 0 {
			stats.OverBudgetNewest = true
		}
		return nil, stats
	}

	// Only the system message present: the window is the pinned prefix.
	if len(groups) == 0 {
		return pinned, Stats{Total: pinnedCost, Budget: budget}
	}

	// Walk groups newest → oldest and find the earliest included group index.
	// Group costs are computed once to avoid re-counting.
	costs := make([]int, len(groups))
	for i, g := range groups {
		costs[i] = c.CountGroup(g, rest)
	}

	total := pinnedCost
	included := 0
	startIdx := len(groups) // exclusive sentinel; lowered when a group is included

	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := costs[gi]
		// If no groups have been included yet and the newest group does not fit
		// next to the pinned prefix, return an empty window and flag it.
		if included == 0 && total+cost > budget {
			vlogf("reason=over_budget_newest_group budget=%d pinned=%d cost=%d", budget, pinnedCost, cost)
			return nil, Stats{
				Total:            0,
				Budget:           budget,
				IncludedGroups:   0,
				SkippedGroups:    len(groups),
				OverBudgetNewest: true,
			}
		}

		if total+cost <= budget {
			total += cost
			included++
			startIdx = gi
			continue
		}

		// Adding this group would exceed budget; stop scanning older groups.
		break
	}

	window := make([]openai.ChatCompletionMessageParamUnion, 0, len(pinned)+len(rest)-groups[startIdx].Start)
	window = append(window, pinned...)
	window = append(window, rest[groups[startIdx].Start:]...)

	stats := Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: included,
		SkippedGroups:  len(groups) - included,
	}
	return window, stats
}
