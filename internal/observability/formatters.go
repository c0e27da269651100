// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/rolecoach/rolecoach/internal/scheduler"
	"github.com/rolecoach/rolecoach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
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
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of a match analysis.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate:   %s\n", result.CandidateName))
	sb.WriteString(fmt.Sprintf("Match score: %d%%\n", result.MatchScore))
	sb.WriteString("\n")

	if len(result.MatchedSkills) > 0 {
		sb.WriteString("Matched skills:\n")
		count := min(len(result.MatchedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := result.MatchedSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s", skill.Name))
			if skill.Proficiency != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", skill.Proficiency))
			}
			sb.WriteString("\n")
		}
		if len(result.MatchedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MatchedSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		sb.WriteString("Missing skills:\n")
		count := min(len(result.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := result.MissingSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s", skill.Name))
			if skill.Importance != "" {
				sb.WriteString(fmt.Sprintf(" [%s]", skill.Importance))
			}
			sb.WriteString("\n")
		}
		if len(result.MissingSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MissingSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if b := result.IndustryBenchmarks; b != nil {
		sb.WriteString(fmt.Sprintf("Benchmark: avg %.0f%%, top %.0f%%, demand %s\n",
			b.AverageScore, b.TopPercentileScore, b.MarketDemand))
	}

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the roadmap phases with their task counts.
func (p *Printer) PrintRoadmap(road *types.Roadmap) {
	if road == nil || len(road.Phases) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target role: %s\n", road.JobTitle))
	if road.InterviewDate != "" {
		sb.WriteString(fmt.Sprintf("Target date: %s\n", road.InterviewDate))
	}
	sb.WriteString("\n")

	for i, phase := range road.Phases {
		sb.WriteString(fmt.Sprintf("Phase %d: %s (%s)\n", i+1, phase.Title, phase.Duration))
		count := min(len(phase.Tasks), 3)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", phase.Tasks[j].Title))
		}
		if len(phase.Tasks) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(phase.Tasks)-3))
		}
	}

	p.printBox("CAREER ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBoard outputs the kanban columns with progress.
func (p *Printer) PrintBoard(board scheduler.Board, progress scheduler.Progress) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Progress: %d/%d (%d%%)\n\n", progress.Done, progress.Total, progress.Percent))

	columns := []struct {
		name  string
		tasks []types.Task
	}{
		{"To Do", board.Todo},
		{"In Progress", board.InProgress},
		{"Done", board.Done},
	}
	for _, col := range columns {
		sb.WriteString(fmt.Sprintf("%s (%d):\n", col.name, len(col.tasks)))
		count := min(len(col.tasks), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", col.tasks[i].Title))
		}
		if len(col.tasks) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(col.tasks)-maxItemsToShow))
		}
	}

	p.printBox("TASK BOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs recent analysis history records.
func (p *Printer) PrintHistory(records []types.HistoryRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := records[i]
		sb.WriteString(fmt.Sprintf("%s  %3d%%  %s\n", rec.Timestamp, rec.MatchScore, rec.JobTitle))
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(records)-maxItemsToShow))
	}

	p.printBox("ANALYSIS HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
