package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rolecoach/rolecoach/internal/scheduler"
	"github.com/rolecoach/rolecoach/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.AnalysisResult{
		CandidateName: "Jane Doe",
		MatchScore:    82,
		MatchedSkills: []types.SkillDetail{
			{Name: "Go", Proficiency: types.ProficiencyExpert},
			{Name: "SQL"},
		},
		MissingSkills: []types.MissingSkillDetail{
			{Name: "Kubernetes", Importance: types.ImportanceCritical},
		},
		IndustryBenchmarks: &types.IndustryBenchmarks{
			AverageScore:       65,
			TopPercentileScore: 88,
			MarketDemand:       types.DemandHigh,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "MATCH ANALYSIS")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "82%")
	assert.Contains(t, out, "Go (Expert)")
	assert.Contains(t, out, "Kubernetes [Critical]")
	assert.Contains(t, out, "avg 65%")
}

func TestPrintAnalysisNilSafe(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysisTruncatesLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	skills := make([]types.SkillDetail, 9)
	for i := range skills {
		skills[i] = types.SkillDetail{Name: "Skill"}
	}
	p.PrintAnalysis(&types.AnalysisResult{MatchedSkills: skills})

	assert.Contains(t, buf.String(), "... and 4 more")
}

func TestPrintRoadmap(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRoadmap(&types.Roadmap{
		JobTitle:      "Platform Engineer",
		InterviewDate: "2025-07-01",
		Phases: []types.RoadmapPhase{
			{Title: "Foundations", Duration: "2 weeks", Tasks: []types.Task{{Title: "Learn Kubernetes"}}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "CAREER ROADMAP")
	assert.Contains(t, out, "Phase 1: Foundations (2 weeks)")
	assert.Contains(t, out, "Learn Kubernetes")
	assert.Contains(t, out, "2025-07-01")
}

func TestPrintBoard(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBoard(scheduler.Board{
		Todo:       []types.Task{{Title: "Read the docs"}},
		InProgress: []types.Task{},
		Done:       []types.Task{{Title: "Set up the repo"}},
	}, scheduler.Progress{Done: 1, Total: 2, Percent: 50})

	out := buf.String()
	assert.Contains(t, out, "TASK BOARD")
	assert.Contains(t, out, "Progress: 1/2 (50%)")
	assert.Contains(t, out, "To Do (1):")
	assert.Contains(t, out, "Done (1):")
	assert.Contains(t, out, "Set up the repo")
}

func TestBoxLinesTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHistory([]types.HistoryRecord{{
		ID:        "rec-1",
		Timestamp: "2025-06-01T12:00:00Z",
		JobTitle:  strings.Repeat("very long title ", 10),
	}})

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
