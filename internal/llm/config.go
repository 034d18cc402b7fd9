// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and future multi-provider support.
package llm

// ModelTier names a model slot in Config
type ModelTier string

// TierStandard is the tier used for schema-constrained generation
const TierStandard ModelTier = "standard"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

const (
	// DefaultTemperature biases the model toward deterministic output
	DefaultTemperature float32 = 0.2
	// DefaultMaxToolRounds bounds the number of tool-call exchanges per generation
	DefaultMaxToolRounds = 4
)

// Config holds the model configuration for the application
type Config struct {
	Provider      Provider
	Models        map[ModelTier]string
	Temperature   float32
	MaxToolRounds int
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:   DefaultTemperature,
		MaxToolRounds: DefaultMaxToolRounds,
	}
}

// GetModel returns the model name for a given tier, falling back to TierStandard
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	return c.Models[TierStandard]
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithTemperature returns a new Config with the given sampling temperature
func (c *Config) WithTemperature(temperature float32) *Config {
	newConfig := c.clone()
	newConfig.Temperature = temperature
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider:      c.Provider,
		Models:        make(map[ModelTier]string, len(c.Models)),
		Temperature:   c.Temperature,
		MaxToolRounds: c.MaxToolRounds,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
