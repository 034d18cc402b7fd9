// Package config provides configuration loading and validation for the CLI.
//
// Values resolve with the precedence flag > config file > environment > default.
// The only environment variable consulted is GEMINI_API_KEY.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the Gemini API key
const APIKeyEnv = "GEMINI_API_KEY"

// Sample inputs used when nothing else is provided
const (
	SampleCompany        = "Google"
	SampleRole           = "Software Development Engineer (SDE) - L3"
	SampleJobDescription = `We are looking for a Software Engineer to join our core infrastructure team.
Responsibilities include designing, developing, and deploying high-volume, low-latency services
using Python and Go. Candidates must have a strong foundation in Data Structures and Algorithms (DSA),
System Design principles (microservices, distributed caches), and expertise in designing and
implementing RESTful APIs. Experience with cloud platforms (GCP, AWS) is a plus.
Excellent communication skills and behavioral fit are essential.`
)

// Config represents the CLI configuration.
// JobDescriptionFile and JobURL, when set, replace the inline JobDescription.
type Config struct {
	// Inputs
	Company            string `mapstructure:"company"`
	Role               string `mapstructure:"role"`
	JobDescription     string `mapstructure:"job_description"`
	JobDescriptionFile string `mapstructure:"job_description_file"`
	JobURL             string `mapstructure:"job_url"`
	Browser            bool   `mapstructure:"browser"` // headless Chrome fallback for JS-rendered postings

	// Output
	Output string `mapstructure:"output"` // Roadmap JSON path

	// Model
	APIKey        string  `mapstructure:"api_key"`
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	SearchMaxUses int     `mapstructure:"search_max_uses"`

	// Behavior
	Verbose   bool   `mapstructure:"verbose"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Defaults returns the configuration used when no flag, file or env value is set
func Defaults() Config {
	return Config{
		Company:        SampleCompany,
		Role:           SampleRole,
		JobDescription: SampleJobDescription,
		Browser:        true,
		Output:         "roadmap_output.json",
		Model:          "gemini-2.5-flash",
		Temperature:    0.2,
		SearchMaxUses:  2,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// FlagKeys maps CLI flag names to config keys
var FlagKeys = map[string]string{
	"company":         "company",
	"role":            "role",
	"jd":              "job_description",
	"jd-file":         "job_description_file",
	"jd-url":          "job_url",
	"browser":         "browser",
	"out":             "output",
	"api-key":         "api_key",
	"model":           "model",
	"temperature":     "temperature",
	"search-max-uses": "search_max_uses",
	"verbose":         "verbose",
	"log-level":       "log_level",
	"log-format":      "log_format",
}

// Load resolves the configuration from flags, an optional config file (JSON or
// YAML, chosen by extension) and the environment. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	if flags != nil {
		for name, key := range FlagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment sits below flags and the config file
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("company", d.Company)
	v.SetDefault("role", d.Role)
	v.SetDefault("job_description", d.JobDescription)
	v.SetDefault("job_description_file", d.JobDescriptionFile)
	v.SetDefault("job_url", d.JobURL)
	v.SetDefault("browser", d.Browser)
	v.SetDefault("output", d.Output)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("model", d.Model)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("search_max_uses", d.SearchMaxUses)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Validate checks that the configuration has valid values.
// The API key is not checked here; the roadmap builder reports it distinctly.
func (c *Config) Validate() error {
	if c.JobDescriptionFile != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job_description_file' and 'job_url' are mutually exclusive")
	}

	if strings.TrimSpace(c.Company) == "" {
		return fmt.Errorf("config error: 'company' must not be empty")
	}
	if strings.TrimSpace(c.Role) == "" {
		return fmt.Errorf("config error: 'role' must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("config error: 'output' must not be empty")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.SearchMaxUses < 0 {
		return fmt.Errorf("config error: 'search_max_uses' must be non-negative")
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be \"console\" or \"json\", got %q", c.LogFormat)
	}

	if c.JobDescriptionFile != "" {
		if _, err := os.Stat(c.JobDescriptionFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: job description file not found: %s", c.JobDescriptionFile)
		}
	}

	return nil
}
