package windowing_test

import (
	"testing"

	"github.com/openai/openai-go/v2"

	"github.com/marketlens/research-agent/internal/windowing"
)

func TestPrepareSendWindow_Empty(t *testing.T) {
	window, stats := windowing.PrepareSendWindow(nil, 100, windowing.HeuristicCounter{})
	if window != nil {
		t.Fatalf("window should be nil, got %d messages", len(window))
	}
	if stats.Budget != 100 || stats.Total != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestPrepareSendWindow_BudgetFitsNewestPairOnly(t *testing.T) {
	// Costs: user("old")=7, pair = assistant(22) + tool("r")=5 -> 27.
	msgs := []openai.ChatCompletionMessageParamUnion{
		userMsg("old"),
		assistantWithCalls("a"),
		toolMsg("a", "r"),
	}

	window, stats := windowing.PrepareSendWindow(msgs, 30, windowing.HeuristicCounter{})
	if len(window) != 2 {
		t.Fatalf("window length: got %d want 2", len(window))
	}
	if window[0].OfAssistant == nil || window[1].OfTool == nil {
		t.Fatalf("window should be the newest pair")
	}
	if stats.IncludedGroups != 1 || stats.SkippedGroups != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.Total != 27 {
		t.Fatalf("total: got %d want 27", stats.Total)
	}
}

func TestPrepareSendWindow_SystemMessagePinned(t *testing.T) {
	// Costs: system("sys")=7, user("old")=7, user("new")=7.
	msgs := []openai.ChatCompletionMessageParamUnion{
		systemMsg("sys"),
		userMsg("old"),
		userMsg("new"),
	}

	window, stats := windowing.PrepareSendWindow(msgs, 15, windowing.HeuristicCounter{})
	if len(window) != 2 {
		t.Fatalf("window length: got %d want 2", len(window))
	}
	if window[0].OfSystem == nil {
		t.Fatal("system message must stay pinned at the front")
	}
	if window[1].OfUser == nil || !window[1].OfUser.Content.OfString.Valid() || window[1].OfUser.Content.OfString.Value != "new" {
		t.Fatalf("second message should be the newest user message: %+v", window[1])
	}
	if stats.Total != 14 || stats.IncludedGroups != 1 || stats.SkippedGroups != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestPrepareSendWindow_OnlySystemMessage(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{systemMsg("sys")}

	window, stats := windowing.PrepareSendWindow(msgs, 50, windowing.HeuristicCounter{})
	if len(window) != 1 || window[0].OfSystem == nil {
		t.Fatalf("window: %+v", window)
	}
	if stats.Total != 7 || stats.OverBudgetNewest {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestPrepareSendWindow_NewestGroupOverBudget(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		assistantWithCalls("a"),
		toolMsg("a", "r"), // pair cost 27
	}

	window, stats := windowing.PrepareSendWindow(msgs, 10, windowing.HeuristicCounter{})
	if window != nil {
		t.Fatalf("window should be empty, got %d messages", len(window))
	}
	if !stats.OverBudgetNewest {
		t.Fatalf("stats should flag over-budget newest group: %+v", stats)
	}
	if stats.IncludedGroups != 0 || stats.SkippedGroups != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestPrepareSendWindow_ZeroBudget(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{userMsg("hi")}

	window, stats := windowing.PrepareSendWindow(msgs, 0, windowing.HeuristicCounter{})
	if window != nil {
		t.Fatalf("window should be empty, got %d messages", len(window))
	}
	if !stats.OverBudgetNewest {
		t.Fatalf("stats should flag over-budget: %+v", stats)
	}
}

func TestPrepareSendWindow_NeverSplitsPair(t *testing.T) {
	// Budget admits the newest pair plus the trailing user message but would
	// have to split the older pair to admit more; the split must not happen.
	msgs := []openai.ChatCompletionMessageParamUnion{
		assistantWithCalls("a"), // pair 1 start, cost 27
		toolMsg("a", "r"),
		userMsg("follow"), // 10
		assistantWithCalls("b"), // pair 2, cost 27
		toolMsg("b", "r"),
	}

	window, _ := windowing.PrepareSendWindow(msgs, 45, windowing.HeuristicCounter{})
	// 27 (pair 2) + 10 (user) = 37 fits; adding pair 1 (27) would exceed 45.
	if len(window) != 3 {
		t.Fatalf("window length: got %d want 3", len(window))
	}
	if window[0].OfUser == nil {
		t.Fatal("window must start at the user message, not inside a pair")
	}
}
