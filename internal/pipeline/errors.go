package pipeline

import "errors"

// Guard errors returned before any state transition occurs.
var (
	// ErrBusy is returned when Submit is called outside the Idle state.
	ErrBusy = errors.New("pipeline is not idle")
	// ErrNotRetryable is returned when RetryAnalysis is called outside the Error state.
	ErrNotRetryable = errors.New("pipeline has no failed analysis to retry")
	// ErrNotComplete is returned when GenerateRoadmap is called outside the Complete state.
	ErrNotComplete = errors.New("pipeline has no completed analysis")
	// ErrNoContext is returned when GenerateRoadmap is called without a stored
	// analysis result or job description.
	ErrNoContext = errors.New("no analysis context for roadmap generation")
	// ErrSuperseded is returned when an in-flight operation finished after the
	// pipeline had already been reset; its result was discarded.
	ErrSuperseded = errors.New("pipeline run superseded by reset")
)

// Fallback user-facing messages when the oracle provides none.
const (
	genericAnalysisError = "The AI matching engine encountered an error."
	roadmapFailedError   = "AI Roadmap failed. Try again in a moment."
)
