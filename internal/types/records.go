package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// jobTitleLimit is the number of job-description characters kept as a history label.
const jobTitleLimit = 30

// HistoryRecord is an AnalysisResult captured at a point in time.
// Records are append-only: never mutated or deleted once created.
type HistoryRecord struct {
	AnalysisResult
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	JobTitle  string `json:"jobTitle"`
}

// NewHistoryRecord builds a record for a fresh analysis, labeling it with a
// truncated job-description excerpt.
func NewHistoryRecord(result *AnalysisResult, jobDescription string, now time.Time) HistoryRecord {
	return HistoryRecord{
		AnalysisResult: *result,
		ID:             uuid.NewString(),
		Timestamp:      now.UTC().Format(time.RFC3339),
		JobTitle:       TruncateTitle(jobDescription, jobTitleLimit),
	}
}

// TruncateTitle shortens s to limit characters, appending an ellipsis when
// anything was cut.
func TruncateTitle(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Clip returns at most the first limit runes of s, with no ellipsis.
func Clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// JobSkill is a skill extracted from a job description.
type JobSkill struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Importance Importance    `json:"importance,omitempty"`
}

// Job is a stored job posting. Immutable after creation.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Skills      []JobSkill `json:"skills"`
	CreatedAt   string     `json:"createdAt"`
}

// NewJob creates a job posting with a generated ID and creation timestamp.
func NewJob(title, description string, skills []JobSkill, now time.Time) Job {
	if skills == nil {
		skills = []JobSkill{}
	}
	return Job{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Skills:      skills,
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}
}

// KeyStatus is the lifecycle state of an API key.
type KeyStatus string

// API key statuses.
const (
	KeyActive  KeyStatus = "active"
	KeyRevoked KeyStatus = "revoked"
)

// ApiKey is an entry in the administrative API key registry.
type ApiKey struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Status    KeyStatus `json:"status"`
	CreatedAt string    `json:"createdAt"`
	LastUsed  string    `json:"lastUsed"`
}
