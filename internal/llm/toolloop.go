package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// runToolLoop sends the prompt to a tool-enabled session and answers function
// calls until the model replies with text or maxRounds exchanges have happened.
// It returns notes describing each tool result and the model's closing text.
func runToolLoop(ctx context.Context, session chatSession, prompt string, tools *toolSet, maxRounds int, logger *zap.Logger) ([]string, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &APICallError{Message: "failed to start research session", Cause: err}
	}

	var notes []string
	for round := 0; ; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			if text, err := extractTextFromResponse(resp); err == nil && strings.TrimSpace(text) != "" {
				notes = append(notes, "Draft analysis: "+strings.TrimSpace(text))
			}
			return notes, nil
		}

		if round >= maxRounds {
			logger.Warn("tool round limit reached, continuing without further tool calls",
				zap.Int("rounds", round), zap.Int("pending_calls", len(calls)))
			return notes, nil
		}

		responses := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			payload, ok := invokeTool(ctx, tools, call, logger)
			if ok {
				notes = append(notes, fmt.Sprintf("%s(%s): %v", call.Name, formatArgs(call.Args), payload["result"]))
			}
			responses = append(responses, genai.FunctionResponse{Name: call.Name, Response: payload})
		}

		resp, err = session.SendMessage(ctx, responses...)
		if err != nil {
			return nil, &APICallError{Message: "failed to return tool results", Cause: err}
		}
	}
}

func invokeTool(ctx context.Context, tools *toolSet, call genai.FunctionCall, logger *zap.Logger) (map[string]any, bool) {
	ctx, span := tracer().Start(ctx, "llm.tool."+call.Name)
	defer span.End()

	payload, ok := tools.invoke(ctx, call.Name, call.Args)
	span.SetAttributes(
		attribute.Bool("tool.ok", ok),
		attribute.Int("tool.uses", tools.uses(call.Name)),
	)
	if !ok {
		logger.Warn("tool call rejected", zap.String("tool", call.Name), zap.Any("response", payload))
	}
	return payload, ok
}

// functionCalls returns the function calls in the first candidate.
func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			calls = append(calls, p)
		case *genai.FunctionCall:
			if p != nil {
				calls = append(calls, *p)
			}
		}
	}
	return calls
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	if q, ok := args["query"].(string); ok && len(args) == 1 {
		return fmt.Sprintf("%q", q)
	}
	return fmt.Sprintf("%v", args)
}
