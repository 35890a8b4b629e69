package windowing_test

import (
	"testing"

	"github.com/openai/openai-go/v2"

	"github.com/marketlens/research-agent/internal/windowing"
)

func TestGroupBlocks_PairDetected(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		userMsg("old"),
		assistantWithCalls("a"),
		toolMsg("a", "result"),
	}

	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 2 {
		t.Fatalf("group count: got %d want 2", len(groups))
	}
	if groups[0].Kind != windowing.GroupSingleton || groups[0].Start != 0 || groups[0].End != 1 {
		t.Fatalf("first group: %+v", groups[0])
	}
	if groups[1].Kind != windowing.GroupPair || groups[1].Start != 1 || groups[1].End != 3 {
		t.Fatalf("pair group: %+v", groups[1])
	}
}

func TestGroupBlocks_ParallelCallsOneGroup(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		assistantWithCalls("a", "b"),
		toolMsg("a", "ra"),
		toolMsg("b", "rb"),
	}

	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 1 {
		t.Fatalf("group count: got %d want 1", len(groups))
	}
	if groups[0].Kind != windowing.GroupPair || groups[0].Start != 0 || groups[0].End != 3 {
		t.Fatalf("pair group: %+v", groups[0])
	}
}

func TestGroupBlocks_MissingResultFallsBackToSingletons(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		assistantWithCalls("a", "b"),
		toolMsg("a", "ra"), // "b" never answered
		userMsg("next"),
	}

	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 3 {
		t.Fatalf("group count: got %d want 3", len(groups))
	}
	for i, g := range groups {
		if g.Kind != windowing.GroupSingleton {
			t.Fatalf("group %d should be singleton: %+v", i, g)
		}
	}
}

func TestGroupBlocks_ExtraResultFallsBackToSingletons(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		assistantWithCalls("a"),
		toolMsg("b", "stray"),
	}

	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 2 {
		t.Fatalf("group count: got %d want 2", len(groups))
	}
	for i, g := range groups {
		if g.Kind != windowing.GroupSingleton {
			t.Fatalf("group %d should be singleton: %+v", i, g)
		}
	}
}

func TestGroupBlocks_PlainConversationAllSingletons(t *testing.T) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		systemMsg("prompt"),
		userMsg("hi"),
		openai.AssistantMessage("hello"),
	}

	groups := windowing.GroupBlocks(msgs)
	if len(groups) != 3 {
		t.Fatalf("group count: got %d want 3", len(groups))
	}
	for i, g := range groups {
		if g.Kind != windowing.GroupSingleton || g.End-g.Start != 1 {
			t.Fatalf("group %d: %+v", i, g)
		}
	}
}
