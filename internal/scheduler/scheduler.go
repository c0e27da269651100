// Package scheduler provides the task scheduler: it maps the roadmap's
// flattened task list onto a calendar window anchored to the target date,
// maintains the three-column Kanban classification, and computes progress.
package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/rolecoach/rolecoach/internal/types"
)

// minWindowDays is the minimum calendar window length.
const minWindowDays = 7

// Day is one derived calendar entry. Days are regenerated per snapshot, never
// persisted.
type Day struct {
	// Name is the weekday abbreviation ("Mon").
	Name string
	// Date is the day of month.
	Date int
	// FullDate is the start of the day in local time.
	FullDate time.Time
	// Milestone marks the target (interview) day; it receives no task
	// allocation.
	Milestone bool
}

// Board is the three-column Kanban partition. The buckets are disjoint and
// keep insertion order.
type Board struct {
	Todo       []types.Task
	InProgress []types.Task
	Done       []types.Task
}

// Progress is the completion metric: done over total, 0 when there are no
// tasks.
type Progress struct {
	Done     int
	Total    int
	Fraction float64
	Percent  int
}

// ChangeFunc observes task status transitions (for persistence).
type ChangeFunc func(taskID string, status types.TaskStatus)

// CelebrateFunc fires on each transition onto done (UI-only side effect).
type CelebrateFunc func(task types.Task)

// Scheduler owns the working task set derived from a roadmap. An empty or nil
// roadmap is the valid "no active plan" state, not an error.
type Scheduler struct {
	mu    sync.Mutex
	tasks []types.Task

	startDate time.Time
	targetSet bool
	target    time.Time

	now         func() time.Time
	onChange    ChangeFunc
	onCelebrate CelebrateFunc
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNow overrides the clock (tests).
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithOnChange registers a status-transition observer.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Scheduler) { s.onChange = fn }
}

// WithOnCelebrate registers the completion side effect.
func WithOnCelebrate(fn CelebrateFunc) Option {
	return func(s *Scheduler) { s.onCelebrate = fn }
}

// New derives a scheduler from a roadmap, flattening all phase tasks into the
// working set in phase order.
func New(road *types.Roadmap, opts ...Option) *Scheduler {
	s := &Scheduler{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if road != nil {
		s.tasks = road.FlattenTasks()
		if d, ok := parseDate(road.StartDate); ok {
			s.startDate = d
		}
		if d, ok := parseDate(road.InterviewDate); ok {
			s.target = d
			s.targetSet = true
		}
	}
	if s.startDate.IsZero() {
		s.startDate = truncateDay(s.now())
	}
	return s
}

// parseDate parses an ISO calendar date (YYYY-MM-DD) in local time.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// HasPlan reports whether there is an active plan (any tasks at all).
func (s *Scheduler) HasPlan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) > 0
}

// Tasks returns a copy of the working task set in insertion order.
func (s *Scheduler) Tasks() []types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Window builds the calendar window: max(7, days-to-target+1) entries from
// the start date, or a 7-day default without a target. The target date is
// flagged as the milestone day when it falls inside the window.
func (s *Scheduler) Window() []Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window()
}

func (s *Scheduler) window() []Day {
	numberOfDays := minWindowDays
	if s.targetSet {
		diff := int(math.Ceil(s.target.Sub(s.startDate).Hours() / 24))
		if diff+1 > numberOfDays {
			numberOfDays = diff + 1
		}
	}

	days := make([]Day, 0, numberOfDays)
	for i := 0; i < numberOfDays; i++ {
		d := s.startDate.AddDate(0, 0, i)
		days = append(days, Day{
			Name:      d.Weekday().String()[:3],
			Date:      d.Day(),
			FullDate:  d,
			Milestone: s.isMilestone(d),
		})
	}
	return days
}

// isMilestone reports whether d is the target day.
func (s *Scheduler) isMilestone(d time.Time) bool {
	return s.targetSet &&
		d.Day() == s.target.Day() &&
		d.Month() == s.target.Month() &&
		d.Year() == s.target.Year()
}

// TasksForDay returns the todo tasks allocated to the window day at index
// dayIndex. The milestone day gets no allocation (IsMilestoneDay reports that
// distinct state); day i receives the slice
// [i*perDay, (i+1)*perDay) of the todo list, with
// perDay = max(1, ceil(todo / max(1, windowLen-1))).
func (s *Scheduler) TasksForDay(dayIndex int) []types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := s.window()
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil
	}

	todo := s.filter(types.TaskTodo)
	if len(todo) == 0 || days[dayIndex].Milestone {
		return nil
	}

	perDay := s.tasksPerDay(len(todo), len(days))
	start := dayIndex * perDay
	if start >= len(todo) {
		return nil
	}
	end := start + perDay
	if end > len(todo) {
		end = len(todo)
	}
	return append([]types.Task(nil), todo[start:end]...)
}

// tasksPerDay computes the daily allocation. The divisor is the window length
// minus the (assumed final) milestone day.
func (s *Scheduler) tasksPerDay(todoCount, windowLen int) int {
	if windowLen <= 1 {
		return todoCount
	}
	workDays := windowLen - 1
	perDay := int(math.Ceil(float64(todoCount) / float64(workDays)))
	if perDay < 1 {
		perDay = 1
	}
	return perDay
}

// IsMilestoneDay reports whether the window day at dayIndex is the milestone
// day, so callers can render its distinct state.
func (s *Scheduler) IsMilestoneDay(dayIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := s.window()
	return dayIndex >= 0 && dayIndex < len(days) && days[dayIndex].Milestone
}

// Board returns the Kanban partition: three disjoint status buckets in
// insertion order.
func (s *Scheduler) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Board{
		Todo:       s.filter(types.TaskTodo),
		InProgress: s.filter(types.TaskInProgress),
		Done:       s.filter(types.TaskDone),
	}
}

func (s *Scheduler) filter(status types.TaskStatus) []types.Task {
	out := []types.Task{}
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Move applies a drag-and-drop transition: any status to any status, fully
// permissive. Moving a task into its current column is a no-op. A transition
// onto done fires the celebration hook exactly once per edge.
func (s *Scheduler) Move(taskID string, status types.TaskStatus) bool {
	if !status.IsValid() {
		return false
	}

	s.mu.Lock()
	var moved *types.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			if s.tasks[i].Status == status {
				s.mu.Unlock()
				return false
			}
			s.tasks[i].Status = status
			moved = &s.tasks[i]
			break
		}
	}
	if moved == nil {
		s.mu.Unlock()
		return false
	}
	task := *moved
	onChange, onCelebrate := s.onChange, s.onCelebrate
	s.mu.Unlock()

	if onChange != nil {
		onChange(taskID, status)
	}
	if status == types.TaskDone && onCelebrate != nil {
		onCelebrate(task)
	}
	return true
}

// MarkComplete is the detail-view completion action: one-way onto done and
// idempotent. Re-confirming a done task changes nothing and fires no side
// effects.
func (s *Scheduler) MarkComplete(taskID string) bool {
	return s.Move(taskID, types.TaskDone)
}

// Progress returns the completion metric.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.tasks)
	done := 0
	for _, t := range s.tasks {
		if t.Status == types.TaskDone {
			done++
		}
	}

	p := Progress{Done: done, Total: total}
	if total > 0 {
		p.Fraction = float64(done) / float64(total)
		p.Percent = int(math.Round(p.Fraction * 100))
	}
	return p
}

// DaysToTarget returns the whole days remaining until the target date and
// whether a target is set at all. Zero or negative values mean the target has
// passed.
func (s *Scheduler) DaysToTarget() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.targetSet {
		return 0, false
	}
	diff := s.target.Sub(truncateDay(s.now())).Hours() / 24
	return int(math.Ceil(diff)), true
}
