// Package llm - tool.go defines callable tools advertised to the model.
package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// Tool is a capability the model may request during generation.
type Tool interface {
	// Name is the function name advertised to the model
	Name() string
	// Description tells the model when to use the tool
	Description() string
	// Parameters describes the argument object; must be an object schema
	Parameters() *Schema
	// Call executes the tool with the arguments chosen by the model
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolBinding attaches a tool to a request with a usage cap. MaxUses <= 0 means unlimited.
type ToolBinding struct {
	Tool    Tool
	MaxUses int
}

// toolDeclarations converts bindings into a single Gemini tool with one function per binding.
func toolDeclarations(bindings []ToolBinding) []*genai.Tool {
	if len(bindings) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(bindings))
	for _, b := range bindings {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        b.Tool.Name(),
			Description: b.Tool.Description(),
			Parameters:  b.Tool.Parameters().ToGenai(),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// toolSet dispatches function calls and tracks per-tool usage.
type toolSet struct {
	tools map[string]*boundTool
}

type boundTool struct {
	binding ToolBinding
	uses    int
}

func newToolSet(bindings []ToolBinding) (*toolSet, error) {
	set := &toolSet{tools: make(map[string]*boundTool, len(bindings))}
	for _, b := range bindings {
		if b.Tool == nil {
			return nil, fmt.Errorf("tool binding without tool")
		}
		name := b.Tool.Name()
		if _, exists := set.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool %q", name)
		}
		if params := b.Tool.Parameters(); params == nil || params.Type != TypeObject {
			return nil, fmt.Errorf("tool %q parameters must be an object schema", name)
		}
		set.tools[name] = &boundTool{binding: b}
	}
	return set, nil
}

// invoke runs the named tool and returns the payload sent back to the model.
// Unknown tools, exhausted caps and tool errors are reported to the model rather than to the caller.
func (s *toolSet) invoke(ctx context.Context, name string, args map[string]any) (map[string]any, bool) {
	bt, ok := s.tools[name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", name)}, false
	}

	if bt.binding.MaxUses > 0 && bt.uses >= bt.binding.MaxUses {
		return map[string]any{
			"error": fmt.Sprintf("usage limit of %d calls reached for %s; continue with the information already gathered", bt.binding.MaxUses, name),
		}, false
	}
	bt.uses++

	out, err := bt.binding.Tool.Call(ctx, args)
	if err != nil {
		return map[string]any{"error": err.Error()}, false
	}
	return map[string]any{"result": out}, true
}

// uses returns how many times the named tool ran.
func (s *toolSet) uses(name string) int {
	if bt, ok := s.tools[name]; ok {
		return bt.uses
	}
	return 0
}
