package types

// TaskStatus is the Kanban classification of a task.
type TaskStatus string

// Task statuses. These are the three mutually exclusive Kanban buckets.
const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// IsValid reports whether s is one of the three known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority ranks a task's urgency.
type TaskPriority string

// Task priorities.
const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// Task is a single preparation task. Status is the only field that mutates
// after creation; tasks are transitioned, never deleted.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ActionItems  []string     `json:"actionItems"`
	Category     string       `json:"category"`
	Priority     TaskPriority `json:"priority"`
	TimeEstimate string       `json:"timeEstimate"`
	Status       TaskStatus   `json:"status"`
	DueDate      string       `json:"dueDate,omitempty"`
}

// RoadmapPhase groups tasks under a titled stage of preparation.
// The structure is immutable; only contained tasks change status.
type RoadmapPhase struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Goals       []string `json:"goals"`
	Tasks       []Task   `json:"tasks"`
}

// NodeCategory classifies a mind-map node.
type NodeCategory string

// Mind-map node categories.
const (
	NodeCore   NodeCategory = "Core"
	NodeTech   NodeCategory = "Tech"
	NodeSoft   NodeCategory = "Soft"
	NodeDomain NodeCategory = "Domain"
)

// NodeStatus is the acquisition state of a mind-map skill node.
type NodeStatus string

// Mind-map node statuses.
const (
	NodeAcquired   NodeStatus = "acquired"
	NodeInProgress NodeStatus = "in-progress"
	NodeMissing    NodeStatus = "missing"
)

// MindMapNode is a node in the roadmap's skill tree. Children form a tree;
// cycles are rejected during roadmap normalization.
type MindMapNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Category NodeCategory   `json:"category"`
	Status   NodeStatus     `json:"status"`
	Children []*MindMapNode `json:"children,omitempty"`
}

// Roadmap is a complete preparation plan for a target role. It is replaced
// wholesale on regeneration; one roadmap is active at a time per identity.
// StartDate and InterviewDate are calendar dates in ISO YYYY-MM-DD form.
type Roadmap struct {
	JobTitle      string         `json:"jobTitle"`
	StartDate     string         `json:"startDate,omitempty"`
	InterviewDate string         `json:"interviewDate,omitempty"`
	MindMap       *MindMapNode   `json:"mindMap"`
	Phases        []RoadmapPhase `json:"phases"`
}

// FlattenTasks returns all phase tasks in phase order as the scheduler's
// working set.
func (r *Roadmap) FlattenTasks() []Task {
	if r == nil {
		return nil
	}
	var tasks []Task
	for _, phase := range r.Phases {
		tasks = append(tasks, phase.Tasks...)
	}
	return tasks
}
