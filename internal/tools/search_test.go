package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSearchTool_Call(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantQuery string
	}{
		{name: "plain query", args: map[string]any{"query": "Google SDE L3 interview rounds"}, wantQuery: "Google SDE L3 interview rounds"},
		{name: "empty query", args: map[string]any{"query": ""}, wantQuery: ""},
		{name: "unicode query", args: map[string]any{"query": "面接 プロセス"}, wantQuery: "面接 プロセス"},
		{name: "missing query", args: nil, wantQuery: ""},
		{name: "non-string query", args: map[string]any{"query": 42}, wantQuery: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			tool := NewSearchTool(zap.New(core))

			out, err := tool.Call(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, SearchPlaceholder, out)

			entries := logs.All()
			require.Len(t, entries, 1, "exactly one diagnostic line per call")
			assert.Contains(t, entries[0].Message, "TOOL CALLED")
			assert.Equal(t, tt.wantQuery, entries[0].ContextMap()["query"])
		})
	}
}

func TestSearchTool_Declaration(t *testing.T) {
	tool := NewSearchTool(nil)

	assert.Equal(t, "google_search", tool.Name())
	assert.Contains(t, tool.Description(), "interview process")

	params := tool.Parameters()
	require.NoError(t, params.Check())
	assert.Equal(t, []string{"query"}, params.Required)
	require.Contains(t, params.Properties, "query")
}

func TestSearchTool_Binding(t *testing.T) {
	tool := NewSearchTool(nil)

	assert.Equal(t, DefaultSearchMaxUses, tool.Binding(0).MaxUses)
	assert.Equal(t, 5, tool.Binding(5).MaxUses)
	assert.Same(t, tool, tool.Binding(1).Tool)
}
