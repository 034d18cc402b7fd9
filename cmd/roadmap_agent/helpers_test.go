package main

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/roadmap-agent/internal/llm"
)

const acmeRoadmapJSON = `{
  "company": "Acme",
  "role": "Backend Engineer",
  "rounds": [
    {"type": "Coding", "topics": ["Hash Maps", "Graphs"]},
    {"type": "System Design", "topics": ["REST API Design", "SQL Indexing"]}
  ],
  "difficulty": "Medium",
  "recommended_order": ["Data Structures and Algorithms", "Databases", "Distributed Systems"]
}`

// stubClient implements llm.Client with a canned response. With callTools set
// it calls every bound tool once before answering, as the provider would.
type stubClient struct {
	response  string
	err       error
	callTools bool
	requests  []*llm.StructuredRequest
}

func (s *stubClient) GenerateStructured(ctx context.Context, req *llm.StructuredRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.callTools {
		for _, binding := range req.Tools {
			if _, err := binding.Tool.Call(ctx, map[string]any{"query": "interview process"}); err != nil {
				return "", err
			}
		}
	}
	return s.response, s.err
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub-model" }

func (s *stubClient) Close() error { return nil }

// useClient routes client construction to client for the duration of the test
// and returns a pointer to the number of constructions.
func useClient(t *testing.T, client llm.Client, factoryErr error) *int {
	t.Helper()
	calls := 0
	previous := newClient
	newClient = func(context.Context, *llm.Config, string, *zap.Logger) (llm.Client, error) {
		calls++
		if factoryErr != nil {
			return nil, factoryErr
		}
		return client, nil
	}
	t.Cleanup(func() { newClient = previous })
	return &calls
}

// useNopLogger silences command logging for the duration of the test
func useNopLogger(t *testing.T) {
	t.Helper()
	previous := newLogger
	newLogger = func(string, string) (*zap.Logger, error) { return zap.NewNop(), nil }
	t.Cleanup(func() { newLogger = previous })
}

// useObservedLogger records command logging at debug level for the duration of the test
func useObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := newLogger
	newLogger = func(string, string) (*zap.Logger, error) { return zap.New(core), nil }
	t.Cleanup(func() { newLogger = previous })
	return logs
}

// execute runs the CLI in-process and returns everything it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
