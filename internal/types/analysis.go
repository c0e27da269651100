// Package types provides type definitions for structured data used throughout the rolecoach system.
package types

// SkillCategory classifies a skill by the kind of competence it represents.
type SkillCategory string

// Skill categories recognized by the analysis engine.
const (
	CategoryTechnical SkillCategory = "Technical"
	CategorySoft      SkillCategory = "Soft"
	CategoryDomain    SkillCategory = "Domain"
)

// Proficiency is the candidate's demonstrated level for a matched skill.
type Proficiency string

// Proficiency levels reported by the analysis engine.
const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyExpert       Proficiency = "Expert"
)

// Importance ranks how much a skill matters for the target role.
type Importance string

// Importance levels for matched and missing skills.
const (
	ImportanceCritical   Importance = "Critical"
	ImportanceNiceToHave Importance = "Nice-to-have"
)

// MarketDemand describes hiring demand for the role in the benchmark block.
type MarketDemand string

// Market demand levels.
const (
	DemandHigh   MarketDemand = "High"
	DemandMedium MarketDemand = "Medium"
	DemandLow    MarketDemand = "Low"
)

// SkillDetail is a skill the candidate's resume demonstrates for the target role.
type SkillDetail struct {
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category"`
	Proficiency Proficiency   `json:"proficiency"`
	Importance  Importance    `json:"importance"`
}

// MissingSkillDetail is a skill the job requires that the resume does not show.
type MissingSkillDetail struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Importance Importance    `json:"importance"`
}

// IndustryBenchmarks situates the candidate's score against the wider market.
type IndustryBenchmarks struct {
	AverageScore          float64      `json:"averageScore"`
	TopPercentileScore    float64      `json:"topPercentileScore"`
	MarketDemand          MarketDemand `json:"marketDemand"`
	TypicalCandidateYears float64      `json:"typicalCandidateYears"`
}

// AnalysisResult is one resume-vs-job evaluation produced by the analysis engine.
// It is immutable once produced; a new analysis supersedes rather than mutates it.
// MatchScore is in [0,100]; list fields are always non-nil after parsing.
type AnalysisResult struct {
	CandidateName      string               `json:"candidateName"`
	MatchScore         int                  `json:"matchScore"`
	Summary            string               `json:"summary"`
	MatchedSkills      []SkillDetail        `json:"matchedSkills"`
	MissingSkills      []MissingSkillDetail `json:"missingSkills"`
	ResumeOnlySkills   []string             `json:"resumeOnlySkills,omitempty"`
	Recommendations    []string             `json:"recommendations"`
	YearsExperience    float64              `json:"yearsExperience"`
	IndustryBenchmarks *IndustryBenchmarks  `json:"industryBenchmarks,omitempty"`
}

// MissingSkillNames returns the names of all missing skills, in order.
func (a *AnalysisResult) MissingSkillNames() []string {
	names := make([]string, 0, len(a.MissingSkills))
	for _, s := range a.MissingSkills {
		names = append(names, s.Name)
	}
	return names
}

// ResumePayload carries the resume content for an analysis request.
// Exactly one representation is set: an inline document (MimeType + base64 Data)
// or plain Text.
type ResumePayload struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
	Text     string `json:"text,omitempty"`
}

// IsInline reports whether the payload is an inline document rather than plain text.
func (p ResumePayload) IsInline() bool {
	return p.MimeType != "" && p.Data != ""
}

// IsEmpty reports whether the payload carries no resume content at all.
func (p ResumePayload) IsEmpty() bool {
	return !p.IsInline() && p.Text == ""
}
