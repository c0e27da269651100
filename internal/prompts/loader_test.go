package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		key      string
		wantErr  bool
	}{
		{name: "analysis inline prompt", filename: "analysis.json", key: "analyze-resume"},
		{name: "analysis text prompt", filename: "analysis.json", key: "analyze-resume-text"},
		{name: "skill extraction prompt", filename: "analysis.json", key: "extract-job-skills"},
		{name: "roadmap prompt", filename: "roadmap.json", key: "generate-roadmap"},
		{name: "unknown key", filename: "analysis.json", key: "no-such-prompt", wantErr: true},
		{name: "unknown file", filename: "missing.json", key: "analyze-resume", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, prompt)
			}
		})
	}
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("analysis.json", "no-such-prompt")
	})
	assert.NotPanics(t, func() {
		MustGet("roadmap.json", "generate-roadmap")
	})
}

func TestFormat(t *testing.T) {
	template := "Role: {{.JobTitle}}. Gaps: {{.MissingSkills}}. Again: {{.JobTitle}}."

	result := Format(template, map[string]string{
		"JobTitle":      "Engineer",
		"MissingSkills": "Go, SQL",
	})

	assert.Equal(t, "Role: Engineer. Gaps: Go, SQL. Again: Engineer.", result)

	// Unknown placeholders are left alone
	assert.Equal(t, "keep {{.Unknown}}", Format("keep {{.Unknown}}", map[string]string{"Other": "x"}))
}

func TestPromptsCarryPlaceholders(t *testing.T) {
	assert.Contains(t, MustGet("analysis.json", "analyze-resume"), "{{.JobDescription}}")
	assert.Contains(t, MustGet("analysis.json", "analyze-resume-text"), "{{.ResumeText}}")
	assert.Contains(t, MustGet("roadmap.json", "generate-roadmap"), "{{.MissingSkills}}")
}
