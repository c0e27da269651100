package types

import (
	"github.com/go-playground/validator/v10"
)

// SubmitRequest carries one analysis submission into the pipeline.
// Both the job description and a non-empty resume payload are required.
type SubmitRequest struct {
	JobDescription string        `json:"jobDescription" validate:"required,min=1"`
	Resume         ResumePayload `json:"resume"`
	FileName       string        `json:"fileName,omitempty"`
}

// Validate validates the SubmitRequest using the validator.
func (r *SubmitRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if r.Resume.IsEmpty() {
		return &MissingFieldError{Field: "resume"}
	}
	return nil
}

// RoadmapRequest carries a roadmap generation request.
type RoadmapRequest struct {
	JobTitle      string   `json:"jobTitle" validate:"required,min=1"`
	MissingSkills []string `json:"missingSkills"`
	TargetDate    string   `json:"targetDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartDate     string   `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Validate validates the RoadmapRequest using the validator.
func (r *RoadmapRequest) Validate() error {
	return validator.New().Struct(r)
}

// SignUpRequest carries a new-account registration.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate validates the SignUpRequest using the validator.
func (r *SignUpRequest) Validate() error {
	return validator.New().Struct(r)
}

// SignInRequest carries a login attempt.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the SignInRequest using the validator.
func (r *SignInRequest) Validate() error {
	return validator.New().Struct(r)
}

// MissingFieldError reports a required field that was absent from a request.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}
