package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/types"
)

// fakeClient returns a canned response for every generation call.
type fakeClient struct {
	response string
	err      error
	parts    []genai.Part
	prompt   string
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeClient) GenerateJSONParts(ctx context.Context, tier llm.ModelTier, parts ...genai.Part) (string, error) {
	f.parts = parts
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func TestAnalyzeTextResume(t *testing.T) {
	client := &fakeClient{response: `{
		"candidateName": "Jane Doe",
		"matchScore": 82,
		"summary": "Strong match.",
		"matchedSkills": [{"name": "Go", "category": "Technical", "proficiency": "Expert"}],
		"missingSkills": [{"name": "Kubernetes", "category": "Technical", "importance": "Critical"}],
		"recommendations": ["Learn Kubernetes"],
		"yearsExperience": 8,
		"industryBenchmarks": {"averageScore": 60, "topPercentileScore": 90, "marketDemand": "High", "typicalCandidateYears": 5}
	}`}
	oracle := NewOracle(client)

	result, err := oracle.Analyze(context.Background(), "Platform Engineer role", types.ResumePayload{Text: "Go developer"})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", result.CandidateName)
	assert.Equal(t, 82, result.MatchScore)
	require.Len(t, result.MatchedSkills, 1)
	assert.Equal(t, types.ProficiencyExpert, result.MatchedSkills[0].Proficiency)
	require.NotNil(t, result.IndustryBenchmarks)
	assert.Equal(t, float64(60), result.IndustryBenchmarks.AverageScore)

	// Text resumes are sent as a single text part
	require.Len(t, client.parts, 1)
	_, isText := client.parts[0].(genai.Text)
	assert.True(t, isText)
}

func TestAnalyzeInlineResume(t *testing.T) {
	client := &fakeClient{response: `{"matchScore": 50}`}
	oracle := NewOracle(client)

	resume := types.ResumePayload{
		MimeType: "application/pdf",
		Data:     "data:application/pdf;base64,JVBERi0xLjQ=",
	}
	_, err := oracle.Analyze(context.Background(), "Role", resume)
	require.NoError(t, err)

	// Inline resumes are sent as a document blob followed by the prompt
	require.Len(t, client.parts, 2)
	blob, isBlob := client.parts[0].(genai.Blob)
	require.True(t, isBlob)
	assert.Equal(t, "application/pdf", blob.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), blob.Data)
}

func TestAnalyzeInvalidBase64(t *testing.T) {
	oracle := NewOracle(&fakeClient{response: `{}`})

	resume := types.ResumePayload{MimeType: "application/pdf", Data: "!!!not base64!!!"}
	_, err := oracle.Analyze(context.Background(), "Role", resume)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestAnalyzeAPIFailure(t *testing.T) {
	oracle := NewOracle(&fakeClient{err: errors.New("upstream timeout")})

	_, err := oracle.Analyze(context.Background(), "Role", types.ResumePayload{Text: "resume"})

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorContains(t, err, "upstream timeout")
}

func TestParseAnalysisResponse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantError bool
		validate  func(*testing.T, *types.AnalysisResult)
	}{
		{
			name: "markdown fenced response",
			text: "```json\n{\"candidateName\": \"Jane\", \"matchScore\": 70}\n```",
			validate: func(t *testing.T, result *types.AnalysisResult) {
				assert.Equal(t, "Jane", result.CandidateName)
				assert.Equal(t, 70, result.MatchScore)
			},
		},
		{
			name: "chatty prefix around the JSON",
			text: "Here is the analysis you asked for: {\"matchScore\": 55} Hope it helps!",
			validate: func(t *testing.T, result *types.AnalysisResult) {
				assert.Equal(t, 55, result.MatchScore)
			},
		},
		{
			name: "quoted score string",
			text: `{"matchScore": "87"}`,
			validate: func(t *testing.T, result *types.AnalysisResult) {
				assert.Equal(t, 87, result.MatchScore)
			},
		},
		{
			name: "non-numeric score defaults to zero",
			text: `{"matchScore": "excellent"}`,
			validate: func(t *testing.T, result *types.AnalysisResult) {
				assert.Equal(t, 0, result.MatchScore)
			},
		},
		{
			name:      "empty response",
			text:      "",
			wantError: true,
		},
		{
			name:      "no JSON at all",
			text:      "I could not process that request.",
			wantError: true,
		},
		{
			name:      "schema violation",
			text:      `{"matchedSkills": [{"category": "Technical"}]}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAnalysisResponse(tt.text)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				if tt.validate != nil {
					tt.validate(t, result)
				}
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Run("fills everything on an empty result", func(t *testing.T) {
		result := &types.AnalysisResult{}
		ApplyDefaults(result)

		assert.Equal(t, "Candidate Profile", result.CandidateName)
		assert.NotNil(t, result.MatchedSkills)
		assert.NotNil(t, result.MissingSkills)
		assert.NotNil(t, result.Recommendations)
		require.NotNil(t, result.IndustryBenchmarks)
		assert.Equal(t, float64(65), result.IndustryBenchmarks.AverageScore)
		assert.Equal(t, float64(88), result.IndustryBenchmarks.TopPercentileScore)
		assert.Equal(t, types.DemandHigh, result.IndustryBenchmarks.MarketDemand)
		assert.Equal(t, float64(3), result.IndustryBenchmarks.TypicalCandidateYears)
	})

	t.Run("benchmark years follow reported experience", func(t *testing.T) {
		result := &types.AnalysisResult{YearsExperience: 7}
		ApplyDefaults(result)
		assert.Equal(t, float64(7), result.IndustryBenchmarks.TypicalCandidateYears)
	})

	t.Run("clamps the score", func(t *testing.T) {
		low := &types.AnalysisResult{MatchScore: -5}
		ApplyDefaults(low)
		assert.Equal(t, 0, low.MatchScore)

		high := &types.AnalysisResult{MatchScore: 130}
		ApplyDefaults(high)
		assert.Equal(t, 100, high.MatchScore)
	})

	t.Run("keeps populated fields", func(t *testing.T) {
		bench := &types.IndustryBenchmarks{AverageScore: 40}
		result := &types.AnalysisResult{
			CandidateName:      "Jane",
			IndustryBenchmarks: bench,
		}
		ApplyDefaults(result)
		assert.Equal(t, "Jane", result.CandidateName)
		assert.Same(t, bench, result.IndustryBenchmarks)
	})
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "number", raw: `83`, want: 83},
		{name: "float truncates", raw: `83.9`, want: 83},
		{name: "quoted integer", raw: `"42"`, want: 42},
		{name: "quoted float", raw: `"42.5"`, want: 42},
		{name: "padded string", raw: `" 17 "`, want: 17},
		{name: "word", raw: `"great"`, want: 0},
		{name: "null", raw: `null`, want: 0},
		{name: "absent", raw: ``, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceScore(json.RawMessage(tt.raw)))
		})
	}
}

func TestCleanBase64(t *testing.T) {
	assert.Equal(t, "abc123", CleanBase64("data:application/pdf;base64,abc123"))
	assert.Equal(t, "abc123", CleanBase64("abc123"))
	assert.Equal(t, "", CleanBase64("data:text/plain;base64,"))
}

func TestExtractJobSkills(t *testing.T) {
	client := &fakeClient{response: `[
		{"name": "Go", "category": "Technical", "importance": "Critical"},
		{"name": "Mentoring", "category": "Soft"}
	]`}
	oracle := NewOracle(client)

	skills, err := oracle.ExtractJobSkills(context.Background(), "We need a Go engineer who mentors.")
	require.NoError(t, err)

	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, types.CategoryTechnical, skills[0].Category)
	assert.Equal(t, types.ImportanceCritical, skills[0].Importance)
	assert.Contains(t, client.prompt, "We need a Go engineer")
}

func TestExtractJobSkillsRejectsBadCategory(t *testing.T) {
	client := &fakeClient{response: `[{"name": "Go", "category": "Mystical"}]`}
	oracle := NewOracle(client)

	_, err := oracle.ExtractJobSkills(context.Background(), "posting")

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
