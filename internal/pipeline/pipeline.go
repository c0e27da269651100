// Package pipeline provides the submission pipeline: the finite-state machine
// that drives a resume analysis through timed upload/processing/analysis
// phases with a single automatic retry, and the roadmap-generation branch off
// the Complete state.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rolecoach/rolecoach/internal/types"
)

// State is a pipeline phase.
type State string

// Pipeline states.
const (
	StateIdle              State = "IDLE"
	StateUploading         State = "UPLOADING"
	StateProcessing        State = "PROCESSING"
	StateAnalyzing         State = "ANALYZING"
	StateGeneratingRoadmap State = "GENERATING_ROADMAP"
	StateComplete          State = "COMPLETE"
	StateError             State = "ERROR"
)

// maxAnalysisAttempts bounds the Analyzing phase: one call plus one silent retry.
const maxAnalysisAttempts = 2

// Default durations of the timed progress holds.
const (
	DefaultUploadHold  = 600 * time.Millisecond
	DefaultProcessHold = 800 * time.Millisecond
)

// AnalysisOracle produces an analysis for a submission. Implementations are
// treated as opaque: any error is a failed attempt.
type AnalysisOracle interface {
	Analyze(ctx context.Context, jobDescription string, resume types.ResumePayload) (*types.AnalysisResult, error)
}

// RoadmapOracle produces a roadmap for a generation request.
type RoadmapOracle interface {
	Generate(ctx context.Context, req types.RoadmapRequest) (*types.Roadmap, error)
}

// RecordStore receives the pipeline's durable side effects. *session.Store
// satisfies it.
type RecordStore interface {
	RecordAnalysis(ctx context.Context, record types.HistoryRecord, result *types.AnalysisResult)
	SetRoadmap(ctx context.Context, road *types.Roadmap)
	ClearAnalysis(ctx context.Context)
}

// TransitionFunc observes state changes.
type TransitionFunc func(from, to State)

// Options configures a Pipeline.
type Options struct {
	Analyses AnalysisOracle
	Roadmaps RoadmapOracle
	Records  RecordStore

	// UploadHold and ProcessHold are the fixed progress delays. Zero values
	// use the defaults; negative values disable the holds (tests).
	UploadHold  time.Duration
	ProcessHold time.Duration

	// Now supplies timestamps for history records. Defaults to time.Now.
	Now func() time.Time

	// OnTransition, if set, is invoked for every state change.
	OnTransition TransitionFunc
}

// Pipeline is the submission state machine. All methods are safe for
// concurrent use, though the model is a single logical writer.
type Pipeline struct {
	mu   sync.Mutex
	opts Options

	state   State
	result  *types.AnalysisResult
	errText string
	lastReq types.SubmitRequest

	// generation invalidates in-flight runs: Reset and every terminal
	// transition bump it, and a run whose token no longer matches discards
	// its result without side effects.
	generation uint64
}

// New creates a pipeline in the Idle state.
func New(opts Options) *Pipeline {
	if opts.UploadHold == 0 {
		opts.UploadHold = DefaultUploadHold
	}
	if opts.ProcessHold == 0 {
		opts.ProcessHold = DefaultProcessHold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{opts: opts, state: StateIdle}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the user-facing error message for the Error state, or "".
func (p *Pipeline) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errText
}

// Result returns the current analysis result, or nil.
func (p *Pipeline) Result() *types.AnalysisResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Submit drives one analysis submission through the full pipeline. Validation
// failures and the not-Idle guard reject the call before any state change.
// On oracle failure (after the automatic retry) the pipeline lands in Error
// and the oracle's message is retained; on success exactly one HistoryRecord
// is appended via the record store.
func (p *Pipeline) Submit(ctx context.Context, req types.SubmitRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrBusy
	}
	p.lastReq = req
	p.errText = ""
	gen := p.generation
	p.setState(StateUploading)
	p.mu.Unlock()

	// Timed progress holds. Not cancelable; they exist only to pace the
	// pipeline's visible phases.
	p.hold(p.opts.UploadHold)
	if !p.advance(gen, StateProcessing) {
		return ErrSuperseded
	}
	p.hold(p.opts.ProcessHold)
	if !p.advance(gen, StateAnalyzing) {
		return ErrSuperseded
	}

	return p.runAnalysis(ctx, gen, req)
}

// RetryAnalysis re-attempts the last failed submission. It re-enters
// Analyzing directly with a fresh attempt budget, skipping the progress holds.
func (p *Pipeline) RetryAnalysis(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateError || p.lastReq.JobDescription == "" {
		p.mu.Unlock()
		return ErrNotRetryable
	}
	req := p.lastReq
	p.errText = ""
	gen := p.generation
	p.setState(StateAnalyzing)
	p.mu.Unlock()

	return p.runAnalysis(ctx, gen, req)
}

// runAnalysis performs the bounded oracle attempt loop from the Analyzing
// state and commits the outcome unless the run was superseded.
func (p *Pipeline) runAnalysis(ctx context.Context, gen uint64, req types.SubmitRequest) error {
	var result *types.AnalysisResult
	var err error
	for attempt := 0; attempt < maxAnalysisAttempts; attempt++ {
		result, err = p.opts.Analyses.Analyze(ctx, req.JobDescription, req.Resume)
		if err == nil {
			break
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		// The pipeline was reset while the call was in flight; discard.
		return ErrSuperseded
	}

	if err != nil {
		p.errText = errorMessage(err)
		p.setState(StateError)
		return err
	}

	record := types.NewHistoryRecord(result, req.JobDescription, p.opts.Now())
	if p.opts.Records != nil {
		p.opts.Records.RecordAnalysis(ctx, record, result)
	}
	p.result = result
	p.setState(StateComplete)
	return nil
}

// GenerateRoadmap branches off Complete to produce a preparation roadmap from
// the current analysis. There is no automatic retry; a failure lands in Error
// with a roadmap-specific message and the user may retrigger manually.
func (p *Pipeline) GenerateRoadmap(ctx context.Context, targetDate, startDate string) error {
	p.mu.Lock()
	if p.state != StateComplete {
		p.mu.Unlock()
		return ErrNotComplete
	}
	if p.result == nil || p.lastReq.JobDescription == "" {
		p.mu.Unlock()
		return ErrNoContext
	}
	req := types.RoadmapRequest{
		JobTitle:      types.Clip(p.lastReq.JobDescription, 50),
		MissingSkills: p.result.MissingSkillNames(),
		TargetDate:    targetDate,
		StartDate:     startDate,
	}
	gen := p.generation
	p.setState(StateGeneratingRoadmap)
	p.mu.Unlock()

	road, err := p.opts.Roadmaps.Generate(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return ErrSuperseded
	}

	if err != nil {
		p.errText = roadmapFailedError
		p.setState(StateError)
		return err
	}

	if p.opts.Records != nil {
		p.opts.Records.SetRoadmap(ctx, road)
	}
	p.setState(StateComplete)
	return nil
}

// Reset returns the pipeline to Idle, clearing the current result, roadmap,
// and error text. Any in-flight run is invalidated: its result will be
// discarded when it completes.
func (p *Pipeline) Reset(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.result = nil
	p.errText = ""
	if p.opts.Records != nil {
		p.opts.Records.ClearAnalysis(ctx)
	}
	p.setState(StateIdle)
}

// advance moves to next unless the run's generation token is stale.
func (p *Pipeline) advance(gen uint64, next State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false
	}
	p.setState(next)
	return true
}

// setState records a transition and notifies the listener. Callers hold p.mu.
func (p *Pipeline) setState(next State) {
	from := p.state
	p.state = next
	if p.opts.OnTransition != nil && from != next {
		p.opts.OnTransition(from, next)
	}
}

// hold sleeps for a progress delay; negative durations disable the hold.
func (p *Pipeline) hold(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// errorMessage extracts a user-facing message from an oracle failure.
func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return genericAnalysisError
	}
	return err.Error()
}
