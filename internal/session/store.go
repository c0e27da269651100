// Package session provides the per-identity record store. It owns the history
// list, job board, roadmap, API key registry, and latest analysis result for
// the authenticated identity, and re-persists the owned collections on every
// mutation.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rolecoach/rolecoach/internal/store"
	"github.com/rolecoach/rolecoach/internal/types"
)

// Persistence key families. The administrative identity shares one global
// namespace; regular identities each get a private blob.
const (
	KeyGlobalHistory = "app_global_history"
	KeyGlobalJobs    = "app_global_jobs"
	KeyGlobalAPIKeys = "app_global_apikeys"
	userKeyPrefix    = "app_data_"
)

// UserKey returns the persistence key for a regular identity's data blob.
func UserKey(userID string) string {
	return userKeyPrefix + userID
}

// userBlob is the single-document shape persisted per regular identity.
type userBlob struct {
	History    []types.HistoryRecord `json:"history"`
	Jobs       []types.Job           `json:"jobs"`
	Roadmap    *types.Roadmap        `json:"roadmap,omitempty"`
	LastResult *types.AnalysisResult `json:"lastResult,omitempty"`
}

// Store owns the tracked collections for the current identity and is the sole
// writer to the persistence adapter. Loads are best-effort: malformed stored
// data is logged and leaves collections at their empty defaults.
type Store struct {
	mu      sync.Mutex
	adapter store.Adapter
	logf    func(format string, args ...any)

	user       *types.User
	history    []types.HistoryRecord
	jobs       []types.Job
	apiKeys    []types.ApiKey
	roadmap    *types.Roadmap
	lastResult *types.AnalysisResult
}

// New creates a session store over a persistence adapter.
func New(adapter store.Adapter) *Store {
	return &Store{
		adapter: adapter,
		logf:    log.Printf,
	}
}

// SetLogger overrides the warning logger (tests).
func (s *Store) SetLogger(logf func(format string, args ...any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf = logf
}

// OnIdentityChanged is the identity-lifecycle event handler. It always clears
// the in-memory collections first; when next is non-nil it then loads that
// identity's persisted data. A nil transition (sign-out) leaves everything at
// defaults.
func (s *Store) OnIdentityChanged(ctx context.Context, next *types.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = next
	s.history = nil
	s.jobs = nil
	s.apiKeys = nil
	s.roadmap = nil
	s.lastResult = nil

	if next == nil {
		return
	}
	s.load(ctx)
}

// load populates collections from the adapter for the current identity.
// Callers hold s.mu.
func (s *Store) load(ctx context.Context) {
	if s.user.Role == types.RoleAdmin {
		s.loadGlobal(ctx)
		return
	}

	data, ok, err := s.adapter.Get(ctx, UserKey(s.user.ID))
	if err != nil {
		s.logf("session: load failed for %s: %v", s.user.ID, err)
		return
	}
	if !ok {
		return
	}

	var blob userBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		s.logf("session: malformed stored data for %s: %v", s.user.ID, err)
		return
	}
	s.history = blob.History
	s.jobs = blob.Jobs
	s.roadmap = blob.Roadmap
	s.lastResult = blob.LastResult
}

// loadGlobal reads the three administrative keys concurrently. A failure on
// one key leaves only that collection at its default.
func (s *Store) loadGlobal(ctx context.Context) {
	var history []types.HistoryRecord
	var jobs []types.Job
	var apiKeys []types.ApiKey

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.loadInto(gCtx, KeyGlobalHistory, &history)
		return nil
	})
	g.Go(func() error {
		s.loadInto(gCtx, KeyGlobalJobs, &jobs)
		return nil
	})
	g.Go(func() error {
		s.loadInto(gCtx, KeyGlobalAPIKeys, &apiKeys)
		return nil
	})
	_ = g.Wait()

	s.history = history
	s.jobs = jobs
	s.apiKeys = apiKeys
}

// loadInto unmarshals one key into target, logging problems instead of
// surfacing them.
func (s *Store) loadInto(ctx context.Context, key string, target any) {
	data, ok, err := s.adapter.Get(ctx, key)
	if err != nil {
		s.logf("session: load failed for %s: %v", key, err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(data, target); err != nil {
		s.logf("session: malformed stored data for %s: %v", key, err)
	}
}

// persist writes the tracked collections for the current identity. Writes are
// fire-and-forget: failures are logged, not surfaced. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.user == nil {
		return
	}

	if s.user.Role == types.RoleAdmin {
		s.persistKey(ctx, KeyGlobalHistory, s.historyOrEmpty())
		s.persistKey(ctx, KeyGlobalJobs, s.jobsOrEmpty())
		s.persistKey(ctx, KeyGlobalAPIKeys, s.apiKeysOrEmpty())
		return
	}

	blob := userBlob{
		History:    s.historyOrEmpty(),
		Jobs:       s.jobsOrEmpty(),
		Roadmap:    s.roadmap,
		LastResult: s.lastResult,
	}
	s.persistKey(ctx, UserKey(s.user.ID), blob)
}

func (s *Store) persistKey(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logf("session: marshal failed for %s: %v", key, err)
		return
	}
	if err := s.adapter.Set(ctx, key, data); err != nil {
		s.logf("session: save failed for %s: %v", key, err)
	}
}

func (s *Store) historyOrEmpty() []types.HistoryRecord {
	if s.history == nil {
		return []types.HistoryRecord{}
	}
	return s.history
}

func (s *Store) jobsOrEmpty() []types.Job {
	if s.jobs == nil {
		return []types.Job{}
	}
	return s.jobs
}

func (s *Store) apiKeysOrEmpty() []types.ApiKey {
	if s.apiKeys == nil {
		return []types.ApiKey{}
	}
	return s.apiKeys
}

// CurrentUser returns the identity the store is bound to, or nil.
func (s *Store) CurrentUser() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// History returns the append-only analysis history, newest first.
func (s *Store) History() []types.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Jobs returns the stored job postings, newest first.
func (s *Store) Jobs() []types.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// APIKeys returns the administrative API key registry.
func (s *Store) APIKeys() []types.ApiKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ApiKey, len(s.apiKeys))
	copy(out, s.apiKeys)
	return out
}

// Roadmap returns the active roadmap, or nil when none is stored.
func (s *Store) Roadmap() *types.Roadmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roadmap
}

// LastResult returns the most recent analysis result, or nil.
func (s *Store) LastResult() *types.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// RecordAnalysis applies the state changes of one successful analysis as a
// unit: the record is prepended to history, the current result is replaced,
// and any existing roadmap is cleared (a new analysis invalidates it).
func (s *Store) RecordAnalysis(ctx context.Context, record types.HistoryRecord, result *types.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]types.HistoryRecord{record}, s.history...)
	s.lastResult = result
	s.roadmap = nil
	s.persist(ctx)
}

// AddJob prepends a job posting.
func (s *Store) AddJob(ctx context.Context, job types.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]types.Job{job}, s.jobs...)
	s.persist(ctx)
}

// SetRoadmap replaces the active roadmap wholesale.
func (s *Store) SetRoadmap(ctx context.Context, road *types.Roadmap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roadmap = road
	s.persist(ctx)
}

// SetResult replaces the current analysis result without touching history.
func (s *Store) SetResult(ctx context.Context, result *types.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = result
	s.persist(ctx)
}

// ClearAnalysis drops the current result, roadmap, and error context on a
// pipeline reset. History is append-only and untouched.
func (s *Store) ClearAnalysis(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = nil
	s.roadmap = nil
	s.persist(ctx)
}

// SetAPIKeys replaces the administrative API key registry.
func (s *Store) SetAPIKeys(ctx context.Context, keys []types.ApiKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKeys = keys
	s.persist(ctx)
}

// UpdateTaskStatus writes a task-status transition back into the stored
// roadmap and persists it. Unknown task IDs are ignored.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID string, status types.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roadmap == nil {
		return
	}
	for pi := range s.roadmap.Phases {
		for ti := range s.roadmap.Phases[pi].Tasks {
			if s.roadmap.Phases[pi].Tasks[ti].ID == taskID {
				s.roadmap.Phases[pi].Tasks[ti].Status = status
				s.persist(ctx)
				return
			}
		}
	}
}
