package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/roadmap-agent/internal/config"
	"github.com/jonathan/roadmap-agent/internal/ingestion"
	"github.com/jonathan/roadmap-agent/internal/observability"
	"github.com/jonathan/roadmap-agent/internal/output"
	"github.com/jonathan/roadmap-agent/internal/roadmap"
	"github.com/jonathan/roadmap-agent/internal/types"
)

func newGenerateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an interview preparation roadmap",
		Long: `Analyze a job description, research the company's interview process and
write a structured preparation roadmap as JSON.

Without flags the built-in sample (Google, SDE L3) is used. The Gemini API key
is read from --api-key, the config file or GEMINI_API_KEY (a .env file is loaded
at startup).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, configPath)
		},
	}

	d := config.Defaults()
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	cmd.Flags().String("company", d.Company, "Company name")
	cmd.Flags().String("role", d.Role, "Role title")
	cmd.Flags().String("jd", d.JobDescription, "Job description text")
	cmd.Flags().String("jd-file", "", "Path to a job description text file (replaces --jd)")
	cmd.Flags().String("jd-url", "", "URL of a job posting to fetch (replaces --jd)")
	cmd.Flags().Bool("browser", d.Browser, "Render --jd-url pages in headless Chrome when static HTML is too short")
	cmd.Flags().StringP("out", "o", d.Output, "Output roadmap JSON file")
	cmd.Flags().String("api-key", "", "Gemini API key (defaults to "+config.APIKeyEnv+")")
	cmd.Flags().String("model", d.Model, "Gemini model")
	cmd.Flags().Float64("temperature", d.Temperature, "Sampling temperature (0-2)")
	cmd.Flags().Int("search-max-uses", d.SearchMaxUses, "Maximum search tool calls per generation")
	cmd.Flags().BoolP("verbose", "v", false, "Print summaries and trace spans")
	cmd.Flags().String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", d.LogFormat, "Log format (console or json)")

	return cmd
}

func runGenerate(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.LogLevel
	if cfg.Verbose && level == "info" {
		level = "debug"
	}
	logger, err := newLogger(level, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if cfg.Verbose {
		shutdown := observability.InstallTracing(logger)
		defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "--- Interview Roadmap Generation Agent Initialized ---")
	_, _ = fmt.Fprintf(out, "Analyzing Job Description for %s - %s...\n", cfg.Company, cfg.Role)

	if err := generate(ctx, out, cfg, logger); err != nil {
		if errors.Is(err, roadmap.ErrMissingAPIKey) {
			_, _ = fmt.Fprintf(out, "\nFATAL ERROR: %v\n", err)
			_, _ = fmt.Fprintln(out, "Error in gemini api key")
			return errReported
		}

		var configErr *roadmap.ConfigError
		if errors.As(err, &configErr) {
			_, _ = fmt.Fprintf(out, "\nFATAL ERROR: %v\n", err)
			return errReported
		}

		_, _ = fmt.Fprintln(out, "\n--- An unexpected error occurred during execution ---")
		_, _ = fmt.Fprintf(out, "Error: %v\n", err)
		return errReported
	}
	return nil
}

// generate builds the chain, invokes it once and writes the roadmap.
// A nil chain ends the run quietly; Build has already logged the cause.
func generate(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger) error {
	settings := roadmap.Settings{
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		Temperature:   float32(cfg.Temperature),
		SearchMaxUses: cfg.SearchMaxUses,
		Logger:        logger,
	}
	chain, err := roadmap.Build(ctx, settings, roadmap.WithClientFactory(newClient))
	if err != nil {
		return err
	}
	if chain == nil {
		return nil
	}
	defer func() { _ = chain.Close() }()

	fetchOpts := ingestion.DefaultFetchOptions()
	fetchOpts.Logger = logger
	if cfg.Browser {
		fetchOpts.Browser = ingestion.NewChromeRenderer(logger)
	}
	jd, meta, err := ingestion.Load(ctx, ingestion.Source{
		Text: cfg.JobDescription,
		File: cfg.JobDescriptionFile,
		URL:  cfg.JobURL,
	}, fetchOpts)
	if err != nil {
		return err
	}
	logger.Debug("job description loaded",
		zap.String("source", string(meta.Kind)),
		zap.String("location", meta.Location),
		zap.Int("chars", meta.Chars))

	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintJobDescription(jd, meta)
	}

	result, err := chain.Invoke(ctx, types.RoadmapRequest{
		Company:        cfg.Company,
		Role:           cfg.Role,
		JobDescription: jd,
	})
	if err != nil {
		return err
	}

	data, err := output.MarshalJSON(result)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "\n--- Generation Complete: Final Roadmap (JSON) ---")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, string(data))

	if _, err := output.WriteJSON(cfg.Output, result); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nSuccessfully saved roadmap to %s\n", cfg.Output)

	if cfg.Verbose {
		printer.PrintRoadmap(result)
	}
	return nil
}
