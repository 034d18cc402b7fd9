// Package tools holds the capabilities advertised to the model during generation.
package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/roadmap-agent/internal/llm"
	"github.com/jonathan/roadmap-agent/internal/logging"
)

const (
	// SearchToolName is the function name the model calls
	SearchToolName = "google_search"
	// SearchPlaceholder is returned for every query; no real lookup is performed
	SearchPlaceholder = "Search results for the company's interview process are being provided to the model."
	// DefaultSearchMaxUses caps search calls per generation
	DefaultSearchMaxUses = 2
)

const searchDescription = "Use this tool to search for real-time, external information about a company's " +
	"interview process, typical interview rounds, or required skills/tools."

// SearchTool is a stub web search. It logs each query and returns SearchPlaceholder.
type SearchTool struct {
	logger *zap.Logger
}

var _ llm.Tool = (*SearchTool)(nil)

// NewSearchTool creates a SearchTool that reports invocations to logger
func NewSearchTool(logger *zap.Logger) *SearchTool {
	return &SearchTool{logger: logging.OrNop(logger)}
}

// Name implements llm.Tool
func (t *SearchTool) Name() string { return SearchToolName }

// Description implements llm.Tool
func (t *SearchTool) Description() string { return searchDescription }

// Parameters implements llm.Tool
func (t *SearchTool) Parameters() *llm.Schema {
	return llm.ObjectSchema("", map[string]*llm.Schema{
		"query": llm.StringSchema("Free-text search query."),
	}, "query")
}

// Call implements llm.Tool. It never fails.
func (t *SearchTool) Call(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	logging.WithTrace(ctx, t.logger).Info("TOOL CALLED: searching Google", zap.String("query", query))
	return SearchPlaceholder, nil
}

// Binding returns the tool with its usage cap. maxUses <= 0 selects DefaultSearchMaxUses.
func (t *SearchTool) Binding(maxUses int) llm.ToolBinding {
	if maxUses <= 0 {
		maxUses = DefaultSearchMaxUses
	}
	return llm.ToolBinding{Tool: t, MaxUses: maxUses}
}
