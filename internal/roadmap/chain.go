// Package roadmap builds the chain that turns a company, role and job
// description into a PreparationRoadmap using a schema-constrained model call.
package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jonathan/roadmap-agent/internal/llm"
	"github.com/jonathan/roadmap-agent/internal/logging"
	"github.com/jonathan/roadmap-agent/internal/prompts"
	"github.com/jonathan/roadmap-agent/internal/schemas"
	"github.com/jonathan/roadmap-agent/internal/tools"
	"github.com/jonathan/roadmap-agent/internal/types"
)

const (
	// DefaultModel is the Gemini model used when Settings.Model is empty
	DefaultModel = "gemini-2.5-flash"
	// MaxTemperature is the highest sampling temperature Gemini accepts
	MaxTemperature float32 = 2.0
)

const tracerName = "github.com/jonathan/roadmap-agent/internal/roadmap"

// tracer resolves against the current global provider on every call
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Settings configures Build. The API key is passed explicitly; nothing is read from the environment.
type Settings struct {
	APIKey        string
	Model         string
	Temperature   float32
	SearchMaxUses int
	Logger        *zap.Logger
}

// DefaultSettings returns settings with the default model, temperature and search cap
func DefaultSettings(apiKey string) Settings {
	return Settings{
		APIKey:        apiKey,
		Model:         DefaultModel,
		Temperature:   llm.DefaultTemperature,
		SearchMaxUses: tools.DefaultSearchMaxUses,
	}
}

func (s Settings) validate() error {
	if s.Temperature < 0 || s.Temperature > MaxTemperature {
		return &ConfigError{Message: fmt.Sprintf("temperature %.2f out of range [0, %.1f]", s.Temperature, MaxTemperature)}
	}
	if s.SearchMaxUses < 0 {
		return &ConfigError{Message: fmt.Sprintf("search max uses must not be negative, got %d", s.SearchMaxUses)}
	}
	return nil
}

// Option customizes Build
type Option func(*options)

type options struct {
	factory llm.ClientFactory
	search  llm.Tool
}

// WithClientFactory replaces the model client constructor (llm.NewClient by default)
func WithClientFactory(factory llm.ClientFactory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// WithSearchTool replaces the stub search tool
func WithSearchTool(tool llm.Tool) Option {
	return func(o *options) {
		o.search = tool
	}
}

// Chain maps a RoadmapRequest to a PreparationRoadmap with one structured generation.
type Chain struct {
	client            llm.Client
	logger            *zap.Logger
	systemInstruction string
	finalInstruction  string
	schema            *llm.Schema
	schemaDoc         map[string]any
	search            llm.ToolBinding
}

// Build validates settings and assembles the chain.
//
// A missing API key or invalid settings return a *ConfigError before any client
// is constructed. Failures while constructing the client or binding prompts,
// tool and schema are logged and yield a nil chain with a nil error; callers
// must check for nil before invoking.
func Build(ctx context.Context, settings Settings, opts ...Option) (*Chain, error) {
	if strings.TrimSpace(settings.APIKey) == "" {
		return nil, &ConfigError{
			Message: "the Gemini API key is missing; define GEMINI_API_KEY in the environment or a .env file",
			Cause:   ErrMissingAPIKey,
		}
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}

	o := options{factory: llm.NewClient}
	for _, opt := range opts {
		opt(&o)
	}

	logger := logging.OrNop(settings.Logger)
	model := settings.Model
	if model == "" {
		model = DefaultModel
	}
	search := tools.NewSearchTool(logger).Binding(settings.SearchMaxUses)
	if o.search != nil {
		search.Tool = o.search
	}

	config := llm.DefaultConfig().
		WithModel(llm.TierStandard, model).
		WithTemperature(settings.Temperature)

	client, err := o.factory(ctx, config, settings.APIKey, logger)
	if err != nil {
		logger.Error("Error during LLM or chain initialization", zap.Error(err))
		return nil, nil
	}

	chain, err := newChain(client, logger, search)
	if err != nil {
		logger.Error("Error during LLM or chain initialization", zap.Error(err))
		_ = client.Close()
		return nil, nil
	}

	logger.Debug("roadmap chain ready",
		zap.String("model", model),
		zap.Float32("temperature", settings.Temperature),
		zap.String("tool", search.Tool.Name()),
		zap.Int("tool.max_uses", search.MaxUses))
	return chain, nil
}

func newChain(client llm.Client, logger *zap.Logger, search llm.ToolBinding) (*Chain, error) {
	schema := RoadmapSchema()
	if err := schema.Check(); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}

	system, err := prompts.Render(prompts.RoadmapFile, prompts.KeySystemInstruction, map[string]string{
		"SearchTool":    search.Tool.Name(),
		"SearchMaxUses": strconv.Itoa(search.MaxUses),
		"SchemaName":    SchemaName,
	})
	if err != nil {
		return nil, err
	}

	final, err := prompts.Render(prompts.RoadmapFile, prompts.KeyFinalInstruction, map[string]string{
		"SchemaName": SchemaName,
	})
	if err != nil {
		return nil, err
	}

	return &Chain{
		client:            client,
		logger:            logger,
		systemInstruction: system,
		finalInstruction:  final,
		schema:            schema,
		schemaDoc:         schema.JSONSchema(),
		search:            search,
	}, nil
}

// Model returns the model id the chain generates with, as reported by the client
func (c *Chain) Model() string {
	return c.client.GetModel(llm.TierStandard)
}

// Invoke generates a roadmap for req. Every failure is returned to the caller:
// *InputError for an invalid request, provider errors as-is, *ParseError for
// malformed output and *schemas.ValidationError for structurally wrong output.
func (c *Chain) Invoke(ctx context.Context, req types.RoadmapRequest) (*types.PreparationRoadmap, error) {
	invocationID := uuid.NewString()
	ctx, span := tracer().Start(ctx, "roadmap.Invoke", trace.WithAttributes(
		attribute.String("roadmap.invocation_id", invocationID),
		attribute.String("roadmap.company", req.Company),
		attribute.String("roadmap.role", req.Role),
		attribute.String("llm.model", c.Model()),
	))
	defer span.End()

	log := logging.WithTrace(ctx, c.logger).With(zap.String("invocation_id", invocationID))

	if err := req.Validate(); err != nil {
		return nil, fail(span, &InputError{Message: "company, role and job description are required", Cause: err})
	}

	userMessage, err := prompts.Render(prompts.RoadmapFile, prompts.KeyUserMessage, req.Variables())
	if err != nil {
		return nil, fail(span, err)
	}

	log.Info("generating roadmap",
		zap.String("company", req.Company),
		zap.String("role", req.Role),
		zap.String("model", c.Model()),
		zap.Int("job_description.length", len(req.JobDescription)))

	raw, err := c.client.GenerateStructured(ctx, &llm.StructuredRequest{
		Tier:              llm.TierStandard,
		SystemInstruction: c.systemInstruction,
		Prompt:            userMessage,
		Schema:            c.schema,
		Tools:             []llm.ToolBinding{c.search},
		FinalInstruction:  c.finalInstruction,
	})
	if err != nil {
		return nil, fail(span, err)
	}

	roadmap, err := c.decode(raw)
	if err != nil {
		log.Debug("rejected model output", zap.String("raw", raw))
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.Int("roadmap.rounds", len(roadmap.Rounds)),
		attribute.String("roadmap.difficulty", roadmap.Difficulty))
	log.Info("roadmap generated",
		zap.Int("rounds", len(roadmap.Rounds)),
		zap.Int("topics", roadmap.TopicCount()),
		zap.String("difficulty", roadmap.Difficulty))
	return roadmap, nil
}

// decode checks raw against the response schema and unmarshals it
func (c *Chain) decode(raw string) (*types.PreparationRoadmap, error) {
	data := []byte(raw)
	if !json.Valid(data) {
		return nil, &ParseError{Message: "model response is not valid JSON", Cause: fmt.Errorf("response: %.200q", raw)}
	}
	if err := schemas.ValidateDocument(c.schemaDoc, data); err != nil {
		return nil, err
	}

	var roadmap types.PreparationRoadmap
	if err := json.Unmarshal(data, &roadmap); err != nil {
		return nil, &ParseError{Message: "failed to decode roadmap", Cause: err}
	}
	return &roadmap, nil
}

// Close releases the model client
func (c *Chain) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
