// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxItemWidth is where list items are cut with an ellipsis
	maxItemWidth = 50
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
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobPosting outputs a human-readable summary of an extracted posting.
// label names the input (file path or URL) in the box title.
func (p *Printer) PrintJobPosting(label string, posting *types.JobPosting) {
	if posting == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", posting.Company))
	sb.WriteString(fmt.Sprintf("Position: %s\n", posting.Position))
	writeOptional(&sb, "Location", posting.Location)
	writeOptional(&sb, "Salary", posting.Salary)
	writeOptional(&sb, "Type", posting.JobType)
	writeOptional(&sb, "Level", posting.ExperienceLevel)
	sb.WriteString(fmt.Sprintf("Remote:   %s\n", remoteLabel(posting.Remote)))
	sb.WriteString("\n")

	writeList(&sb, "Requirements", posting.Requirements, maxItemsToShow)
	writeList(&sb, "Responsibilities", posting.Responsibilities, maxItemsToShow)
	writeList(&sb, "Benefits", posting.Benefits, 3)

	title := "PARSED JOB POSTING"
	if label != "" {
		title += " (" + label + ")"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func writeOptional(sb *strings.Builder, name string, value *string) {
	if value == nil {
		return
	}
	sb.WriteString(fmt.Sprintf("%-9s %s\n", name+":", *value))
}

func writeList(sb *strings.Builder, name string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(name + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", truncate(items[i], maxItemWidth)))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

func remoteLabel(remote *bool) string {
	switch {
	case remote == nil:
		return "unknown"
	case *remote:
		return "yes"
	default:
		return "no"
	}
}

// truncate cuts s to at most width runes, ending with "..." when shortened.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
