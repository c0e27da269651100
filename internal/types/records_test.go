package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "short stays intact", input: "Engineer", limit: 30, expected: "Engineer"},
		{name: "exact limit stays intact", input: "123456789012345678901234567890", limit: 30, expected: "123456789012345678901234567890"},
		{name: "long gets ellipsis", input: "Senior Staff Platform Engineer, Infrastructure", limit: 30, expected: "Senior Staff Platform Engineer..."},
		{name: "leading whitespace trimmed", input: "   Engineer   ", limit: 30, expected: "Engineer"},
		{name: "multibyte safe", input: "Ingénieur plateforme très sénior et expérimenté", limit: 10, expected: "Ingénieur ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateTitle(tt.input, tt.limit))
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", Clip("abc", 10))
	assert.Equal(t, "abcde", Clip("abcdefgh", 5))
	assert.Equal(t, "héllo", Clip("héllo wörld", 5))
}

func TestNewHistoryRecord(t *testing.T) {
	result := &AnalysisResult{MatchScore: 77, CandidateName: "Jane"}
	now := time.Date(2025, 6, 1, 15, 4, 5, 0, time.FixedZone("CEST", 2*3600))

	rec := NewHistoryRecord(result, "Senior Platform Engineer, Developer Experience", now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2025-06-01T13:04:05Z", rec.Timestamp)
	assert.Equal(t, "Senior Platform Engineer, Deve...", rec.JobTitle)
	assert.Equal(t, 77, rec.MatchScore)

	// IDs are unique per record
	other := NewHistoryRecord(result, "same description", now)
	assert.NotEqual(t, rec.ID, other.ID)
}

func TestNewJob(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	job := NewJob("Backend Engineer", "We build APIs.", nil, now)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "2025-06-01T12:00:00Z", job.CreatedAt)
	// nil skills become an empty list so the stored JSON is stable
	require.NotNil(t, job.Skills)
	assert.Empty(t, job.Skills)
}

func TestFlattenTasks(t *testing.T) {
	road := &Roadmap{
		Phases: []RoadmapPhase{
			{Tasks: []Task{{ID: "a"}, {ID: "b"}}},
			{Tasks: []Task{{ID: "c"}}},
		},
	}

	tasks := road.FlattenTasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "c", tasks[2].ID)

	var nilRoad *Roadmap
	assert.Nil(t, nilRoad.FlattenTasks())
}

func TestTaskStatusIsValid(t *testing.T) {
	assert.True(t, TaskTodo.IsValid())
	assert.True(t, TaskInProgress.IsValid())
	assert.True(t, TaskDone.IsValid())
	assert.False(t, TaskStatus("archived").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestResumePayload(t *testing.T) {
	assert.True(t, ResumePayload{MimeType: "application/pdf", Data: "abc"}.IsInline())
	assert.False(t, ResumePayload{Text: "plain"}.IsInline())
	assert.False(t, ResumePayload{MimeType: "application/pdf"}.IsInline())

	assert.True(t, ResumePayload{}.IsEmpty())
	assert.False(t, ResumePayload{Text: "plain"}.IsEmpty())
	assert.False(t, ResumePayload{MimeType: "application/pdf", Data: "abc"}.IsEmpty())
}

func TestMissingSkillNames(t *testing.T) {
	result := &AnalysisResult{
		MissingSkills: []MissingSkillDetail{{Name: "Kubernetes"}, {Name: "Terraform"}},
	}
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, result.MissingSkillNames())

	empty := &AnalysisResult{}
	assert.NotNil(t, empty.MissingSkillNames())
	assert.Empty(t, empty.MissingSkillNames())
}
