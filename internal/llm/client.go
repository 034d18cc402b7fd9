package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/roadmap-agent/internal/logging"
)

// DefaultFinalInstruction asks for the schema-bound answer after the tool phase.
const DefaultFinalInstruction = "Produce the final answer now as a single JSON object matching the response schema."

const tracerName = "github.com/jonathan/roadmap-agent/internal/llm"

// tracer resolves against the current global provider on every call
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StructuredRequest describes one schema-constrained generation
type StructuredRequest struct {
	Tier              ModelTier
	SystemInstruction string
	Prompt            string
	Schema            *Schema
	Tools             []ToolBinding
	// FinalInstruction is sent with the research notes when tools are bound
	FinalInstruction string
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateStructured returns raw JSON conforming (per the provider) to req.Schema
	GenerateStructured(ctx context.Context, req *StructuredRequest) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ClientFactory constructs a Client. It is swapped out in tests.
type ClientFactory func(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (Client, error)

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey, logger)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// chatSession is the subset of *genai.ChatSession used by the tool loop
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// contentGenerator is the subset of *genai.GenerativeModel used for the final answer
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger *zap.Logger

	startResearch func(modelName string, req *StructuredRequest) chatSession
	structured    func(modelName string, req *StructuredRequest) contentGenerator
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{
		client: client,
		config: config,
		logger: logging.OrNop(logger),
	}
	c.startResearch = func(modelName string, req *StructuredRequest) chatSession {
		model := c.newModel(modelName, req.SystemInstruction)
		model.Tools = toolDeclarations(req.Tools)
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
		}
		return model.StartChat()
	}
	c.structured = func(modelName string, req *StructuredRequest) contentGenerator {
		model := c.newModel(modelName, req.SystemInstruction)
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema.ToGenai()
		return model
	}
	return c, nil
}

func (c *GeminiClient) newModel(modelName, systemInstruction string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if systemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	}
	return model
}

// GenerateStructured runs the tool phase (when tools are bound) and then asks
// for a schema-constrained JSON answer built from the prompt and research notes.
func (c *GeminiClient) GenerateStructured(ctx context.Context, req *StructuredRequest) (string, error) {
	if req == nil || req.Schema == nil {
		return "", fmt.Errorf("structured request requires a schema")
	}
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	ctx, span := tracer().Start(ctx, "llm.GenerateStructured")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", modelName),
		attribute.Int("llm.tools", len(req.Tools)),
	)
	log := logging.WithTrace(ctx, c.logger).With(zap.String("model", modelName))

	prompt := req.Prompt
	if len(req.Tools) > 0 {
		tools, err := newToolSet(req.Tools)
		if err != nil {
			return "", err
		}
		notes, err := runToolLoop(ctx, c.startResearch(modelName, req), req.Prompt, tools, c.config.MaxToolRounds, log)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool phase failed")
			return "", err
		}
		prompt = withResearchNotes(req.Prompt, notes, req.FinalInstruction)
	}

	log.Debug("requesting structured output", zap.Int("prompt.length", len(prompt)))
	resp, err := c.structured(modelName, req).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", &APICallError{Message: "failed to generate structured content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return "", &APICallError{Message: "unusable structured response", Cause: err}
	}

	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// withResearchNotes appends the tool-phase transcript to the user prompt.
func withResearchNotes(prompt string, notes []string, finalInstruction string) string {
	if finalInstruction == "" {
		finalInstruction = DefaultFinalInstruction
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	if len(notes) > 0 {
		sb.WriteString("\n\nResearch notes:\n")
		for _, note := range notes {
			sb.WriteString("- ")
			sb.WriteString(note)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(finalInstruction)
	return sb.String()
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
