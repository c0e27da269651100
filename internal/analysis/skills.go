package analysis

import (
	"context"
	"encoding/json"

	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/prompts"
	"github.com/rolecoach/rolecoach/internal/schemas"
	"github.com/rolecoach/rolecoach/internal/types"
)

// ExtractJobSkills pulls the professional skills out of a job description for
// the job board. Extraction is a best-effort convenience; callers treat an
// error as an empty skill list.
func (o *Oracle) ExtractJobSkills(ctx context.Context, description string) ([]types.JobSkill, error) {
	template := prompts.MustGet("analysis.json", "extract-job-skills")
	prompt := prompts.Format(template, map[string]string{"JobDescription": description})

	responseText, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Message: "failed to extract job skills", Cause: err}
	}

	return ParseJobSkills(responseText)
}

// ParseJobSkills decodes a schema-validated job-skill array response.
func ParseJobSkills(text string) ([]types.JobSkill, error) {
	cleaned := llm.ExtractJSONBlock(text)

	if err := schemas.ValidateBytes(schemas.JobSkills, []byte(cleaned)); err != nil {
		return nil, &ParseError{Message: "skill list failed schema validation", Cause: err}
	}

	var skills []types.JobSkill
	if err := json.Unmarshal([]byte(cleaned), &skills); err != nil {
		return nil, &ParseError{Message: "failed to parse skill list", Cause: err}
	}
	if skills == nil {
		skills = []types.JobSkill{}
	}
	return skills, nil
}
