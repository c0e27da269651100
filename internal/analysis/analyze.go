// Package analysis provides the resume-vs-job analysis oracle client. It sends
// structured prompts to the LLM, validates the response against a JSON schema,
// and fills documented defaults for optional fields.
package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/prompts"
	"github.com/rolecoach/rolecoach/internal/schemas"
	"github.com/rolecoach/rolecoach/internal/types"
)

// Default values injected when the oracle omits optional fields.
const (
	defaultCandidateName = "Candidate Profile"
	defaultAverageScore  = 65
	defaultTopPercentile = 88
	defaultTypicalYears  = 3
)

// Oracle is the analysis oracle client backed by an LLM.
type Oracle struct {
	client llm.Client
}

// NewOracle creates an analysis oracle over an LLM client.
func NewOracle(client llm.Client) *Oracle {
	return &Oracle{client: client}
}

// Analyze evaluates a resume against a job description and returns a fully
// defaulted AnalysisResult. A malformed response is an error, never a partial
// result.
func (o *Oracle) Analyze(ctx context.Context, jobDescription string, resume types.ResumePayload) (*types.AnalysisResult, error) {
	parts, err := buildParts(jobDescription, resume)
	if err != nil {
		return nil, err
	}

	responseText, err := o.client.GenerateJSONParts(ctx, llm.TierAdvanced, parts...)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate analysis", Cause: err}
	}

	return ParseAnalysisResponse(responseText)
}

// buildParts assembles the model request: an inline document part for uploaded
// resumes, or a single text part for plain-text resumes.
func buildParts(jobDescription string, resume types.ResumePayload) ([]genai.Part, error) {
	if resume.IsInline() {
		data, err := base64.StdEncoding.DecodeString(CleanBase64(resume.Data))
		if err != nil {
			return nil, &ParseError{Message: "invalid base64 resume payload", Cause: err}
		}
		template := prompts.MustGet("analysis.json", "analyze-resume")
		text := prompts.Format(template, map[string]string{"JobDescription": jobDescription})
		return []genai.Part{
			genai.Blob{MIMEType: resume.MimeType, Data: data},
			genai.Text(text),
		}, nil
	}

	template := prompts.MustGet("analysis.json", "analyze-resume-text")
	text := prompts.Format(template, map[string]string{
		"ResumeText":     resume.Text,
		"JobDescription": jobDescription,
	})
	return []genai.Part{genai.Text(text)}, nil
}

// CleanBase64 strips a data-URL prefix ("data:...;base64,") if present.
func CleanBase64(data string) string {
	if idx := strings.Index(data, ","); idx >= 0 {
		return data[idx+1:]
	}
	return data
}

// rawAnalysis mirrors AnalysisResult but tolerates a non-numeric matchScore,
// which some model responses quote as a string.
type rawAnalysis struct {
	CandidateName      string                     `json:"candidateName"`
	MatchScore         json.RawMessage            `json:"matchScore"`
	Summary            string                     `json:"summary"`
	MatchedSkills      []types.SkillDetail        `json:"matchedSkills"`
	MissingSkills      []types.MissingSkillDetail `json:"missingSkills"`
	ResumeOnlySkills   []string                   `json:"resumeOnlySkills"`
	Recommendations    []string                   `json:"recommendations"`
	YearsExperience    float64                    `json:"yearsExperience"`
	IndustryBenchmarks *types.IndustryBenchmarks  `json:"industryBenchmarks"`
}

// ParseAnalysisResponse extracts, schema-validates, and decodes an analysis
// response, then applies the documented defaults.
func ParseAnalysisResponse(text string) (*types.AnalysisResult, error) {
	cleaned := llm.ExtractJSONBlock(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &ParseError{Message: "empty response from analysis engine"}
	}

	if err := schemas.ValidateBytes(schemas.AnalysisResult, []byte(cleaned)); err != nil {
		return nil, &ParseError{Message: "response failed schema validation", Cause: err}
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	result := &types.AnalysisResult{
		CandidateName:      raw.CandidateName,
		MatchScore:         coerceScore(raw.MatchScore),
		Summary:            raw.Summary,
		MatchedSkills:      raw.MatchedSkills,
		MissingSkills:      raw.MissingSkills,
		ResumeOnlySkills:   raw.ResumeOnlySkills,
		Recommendations:    raw.Recommendations,
		YearsExperience:    raw.YearsExperience,
		IndustryBenchmarks: raw.IndustryBenchmarks,
	}
	ApplyDefaults(result)
	return result, nil
}

// coerceScore turns a matchScore field into an int, defaulting to 0 when the
// value is absent or non-numeric.
func coerceScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// Tolerate strings like "87" or "87.5"
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return int(n)
		}
	}
	return 0
}

// ApplyDefaults fills the documented defaults for optional fields and clamps
// the score into [0,100]. List fields are never nil afterwards.
func ApplyDefaults(result *types.AnalysisResult) {
	if result.MatchScore < 0 {
		result.MatchScore = 0
	}
	if result.MatchScore > 100 {
		result.MatchScore = 100
	}
	if result.CandidateName == "" {
		result.CandidateName = defaultCandidateName
	}
	if result.MatchedSkills == nil {
		result.MatchedSkills = []types.SkillDetail{}
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []types.MissingSkillDetail{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	if result.IndustryBenchmarks == nil {
		typicalYears := result.YearsExperience
		if typicalYears == 0 {
			typicalYears = defaultTypicalYears
		}
		result.IndustryBenchmarks = &types.IndustryBenchmarks{
			AverageScore:          defaultAverageScore,
			TopPercentileScore:    defaultTopPercentile,
			MarketDemand:          types.DemandHigh,
			TypicalCandidateYears: typicalYears,
		}
	}
}
