package careermentor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openai/openai-go"
)

func MessageWhenToolError(toolCallID string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage("Error occurred while running. Do not retry", toolCallID)
}

func MessageWhenToolErrorWithRetry(errorString string, toolCallID string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage(fmt.Sprintf("Error: %s.\nRetry", errorString), toolCallID)
}

// runTools executes the requested tool calls concurrently and returns one tool
// message per call, in the order the calls were made.
func runTools(ctx context.Context, ag *Agent, toolCalls []openai.ChatCompletionMessageToolCall, logger *slog.Logger) []openai.ChatCompletionMessageParamUnion {
	results := make([]openai.ChatCompletionMessageParamUnion, len(toolCalls))

	var wg sync.WaitGroup
	for i, toolCall := range toolCalls {
		wg.Add(1)
		go func(i int, toolCall openai.ChatCompletionMessageToolCall) {
			defer wg.Done()
			results[i] = runTool(ctx, ag, toolCall, logger)
		}(i, toolCall)
	}
	wg.Wait()

	return results
}

func runTool(ctx context.Context, ag *Agent, toolCall openai.ChatCompletionMessageToolCall, logger *slog.Logger) openai.ChatCompletionMessageParamUnion {
	tool, err := ag.GetTool(toolCall.Function.Name)
	if err != nil {
		logger.Error("Error getting tool", "agent", ag.Name(), "error", err)
		return MessageWhenToolError(toolCall.ID)
	}

	logger.Info(tool.StatusMessage(), "tool", tool.Name(), "arguments", toolCall.Function.Arguments)
	arguments := map[string]interface{}{}
	if toolCall.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &arguments); err != nil {
			logger.Error("Error unmarshalling tool arguments", "tool", tool.Name(), "error", err)
			return MessageWhenToolErrorWithRetry("invalid JSON arguments", toolCall.ID)
		}
	}

	output, err := tool.Execute(ctx, arguments)
	if err != nil {
		logger.Error("Error executing tool", "tool", tool.Name(), "error", err)
		return MessageWhenToolErrorWithRetry(err.Error(), toolCall.ID)
	}
	return openai.ToolMessage(output, toolCall.ID)
}
