// Package observability provides verbose console summaries and tracing setup for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/roadmap-agent/internal/ingestion"
	"github.com/jonathan/roadmap-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of topics listed per round
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, ending in "..." when cut
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintRoadmap outputs a human-readable summary of a generated roadmap.
func (p *Printer) PrintRoadmap(roadmap *types.PreparationRoadmap) {
	if roadmap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", roadmap.Company))
	sb.WriteString(fmt.Sprintf("Role:       %s\n", roadmap.Role))
	sb.WriteString(fmt.Sprintf("Difficulty: %s\n", roadmap.Difficulty))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Rounds (%d, %d topics):\n", len(roadmap.Rounds), roadmap.TopicCount()))
	for i, round := range roadmap.Rounds {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, round.Type))
		count := min(len(round.Topics), maxItemsToShow)
		for _, topic := range round.Topics[:count] {
			sb.WriteString(fmt.Sprintf("     • %s\n", topic))
		}
		if len(round.Topics) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("     ... and %d more\n", len(round.Topics)-maxItemsToShow))
		}
	}

	if len(roadmap.RecommendedOrder) > 0 {
		sb.WriteString("\nRecommended Order:\n")
		for i, domain := range roadmap.RecommendedOrder {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, domain))
		}
	}

	p.printBox("PREPARATION ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDescription outputs where the job description came from and a short preview.
func (p *Printer) PrintJobDescription(text string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", meta.Kind))
	if meta.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", meta.Location))
	}
	if meta.Platform != "" && meta.Platform != ingestion.PlatformUnknown {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", meta.Chars))
	sb.WriteString(fmt.Sprintf("SHA256:   %.12s\n", meta.Hash))

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[0] != "" {
		sb.WriteString("\n")
		count := min(len(lines), 3)
		for _, line := range lines[:count] {
			sb.WriteString(line + "\n")
		}
		if len(lines) > count {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-count))
		}
	}

	p.printBox("JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}
