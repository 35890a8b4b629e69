package windowing_test

import (
	"github.com/openai/openai-go/v2"
)

// Message constructors shared across windowing tests.

func userMsg(text string) openai.ChatCompletionMessageParamUnion {
	return openai.UserMessage(text)
}

func systemMsg(text string) openai.ChatCompletionMessageParamUnion {
	return openai.SystemMessage(text)
}

func toolMsg(id, content string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage(content, id)
}

// assistantWithCalls builds an assistant message issuing one function tool
// call per id, all named "search-companies" with empty argument objects.
func assistantWithCalls(ids ...string) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: id,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      "search-companies",
					Arguments: "{}",
				},
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
	}
}
