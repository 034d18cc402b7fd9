// Package main provides the roadmap_agent CLI, which generates interview
// preparation roadmaps with Gemini.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-agent/internal/llm"
	"github.com/jonathan/roadmap-agent/internal/logging"
)

// errReported marks a failure whose message was already printed
var errReported = errors.New("error already reported")

// Swapped in tests
var (
	newClient llm.ClientFactory = llm.NewClient
	newLogger                   = logging.New
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "roadmap_agent",
		Short:         "Interview Roadmap Generation Agent",
		Long:          "roadmap_agent analyzes a job description, researches the company's interview process with a search tool, and produces a structured interview preparation roadmap.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newValidateCmd(), newSchemaCmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
