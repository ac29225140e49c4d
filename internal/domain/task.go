package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Progress tracks task completion. CompletionPercentage is either set
// directly or derived from the time figures; it must equal 100 exactly
// when the task is completed.
type Progress struct {
	CompletionPercentage float64 `json:"completionPercentage"`
	TimeSpent            float64 `json:"timeSpent"`
	RemainingWork        float64 `json:"remainingWork"`
}

type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	ProjectID      string     `json:"projectId"`
	ClientID       string     `json:"clientId,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	Complexity     Complexity `json:"complexity"`
	AssignedTo     string     `json:"assignedTo,omitempty"`
	EstimatedHours float64    `json:"estimatedHours"`
	ActualHours    float64    `json:"actualHours"`
	Progress       Progress   `json:"progress"`

	// Graph references. DependsOn and BlockedBy are sets of task ids in
	// the same organization; subtask membership is derived from
	// ParentTaskID at read time, never stored.
	DependsOn    []string `json:"dependsOn,omitempty"`
	BlockedBy    []string `json:"blockedBy,omitempty"`
	ParentTaskID string   `json:"parentTaskId,omitempty"`

	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
	Comments      []Comment            `json:"comments,omitempty"`

	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Version is the optimistic concurrency counter maintained by the
	// repository. It is a storage concern, not part of the document.
	Version int64 `json:"-"`
}

// taskTransitions lists the accepted target statuses per current status.
// Terminal statuses have no outgoing edges; the administrative Reopen
// path is the only way out of them.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskNotStarted:  {TaskInProgress, TaskBlocked, TaskCancelled},
	TaskInProgress:  {TaskUnderReview, TaskBlocked, TaskCancelled},
	TaskUnderReview: {TaskCompleted, TaskInProgress, TaskBlocked, TaskCancelled},
	TaskBlocked:     {TaskInProgress, TaskCancelled},
	TaskCompleted:   nil,
	TaskCancelled:   nil,
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// IsActive reports whether the status counts toward a member's active
// workload.
func (s TaskStatus) IsActive() bool {
	return s == TaskNotStarted || s == TaskInProgress || s == TaskUnderReview
}

func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	return slices.Contains(taskTransitions[s], target)
}

// TransitionTo applies a caller-requested status change. Rejected
// changes leave the task, including its history, untouched.
func (t *Task) TransitionTo(target TaskStatus, changedBy, reason string, now time.Time) error {
	if !t.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, From: string(t.Status), To: string(target)}
	}
	if target == TaskBlocked && len(t.BlockedBy) == 0 && reason == "" {
		return fmt.Errorf("task %s: transition to blocked requires a blocker reference or a reason", t.ID)
	}
	t.setStatus(target, changedBy, reason, now)
	return nil
}

// Reopen forces a terminal task back to in_progress. The reason is
// mandatory; authorization is checked by the caller.
func (t *Task) Reopen(changedBy, reason string, now time.Time) error {
	if !t.Status.IsTerminal() {
		return fmt.Errorf("task %s: reopen applies to terminal statuses, current is %s", t.ID, t.Status)
	}
	if reason == "" {
		return fmt.Errorf("task %s: reopen requires a reason", t.ID)
	}
	t.CompletedAt = nil
	t.Progress.CompletionPercentage = 0
	t.setStatus(TaskInProgress, changedBy, reason, now)
	return nil
}

// ApplyProgress sets the completion percentage directly. Leaving zero
// auto-starts a not_started task; reaching one hundred auto-completes
// an in_progress or under_review task. These are the only automatic
// transitions in the system.
func (t *Task) ApplyProgress(pct float64, changedBy string, now time.Time) error {
	if pct < 0 || pct > 100 {
		return &OutOfRangeError{Field: "completionPercentage", Value: pct, Min: 0, Max: 100}
	}
	return t.applyProgress(pct, changedBy, now)
}

// ApplyTimeProgress records time tracking figures and derives the
// completion percentage as round(100*timeSpent/(timeSpent+remainingWork))
// when the denominator is positive, then applies the same automatic
// transitions as ApplyProgress.
func (t *Task) ApplyTimeProgress(timeSpent, remainingWork float64, changedBy string, now time.Time) error {
	if timeSpent < 0 {
		return fmt.Errorf("timeSpent %g must be non-negative: %w", timeSpent, ErrOutOfRange)
	}
	if remainingWork < 0 {
		return fmt.Errorf("remainingWork %g must be non-negative: %w", remainingWork, ErrOutOfRange)
	}
	if t.Status.IsTerminal() {
		return fmt.Errorf("task %s is %s: %w", t.ID, t.Status, ErrInvalidTransition)
	}
	pct := t.Progress.CompletionPercentage
	if total := timeSpent + remainingWork; total > 0 {
		pct = math.Round(100 * timeSpent / total)
	}
	if t.Status == TaskBlocked && pct >= 100 {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, From: string(TaskBlocked), To: string(TaskCompleted)}
	}
	t.Progress.TimeSpent = timeSpent
	t.Progress.RemainingWork = remainingWork
	return t.applyProgress(pct, changedBy, now)
}

func (t *Task) applyProgress(pct float64, changedBy string, now time.Time) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("task %s is %s: %w", t.ID, t.Status, ErrInvalidTransition)
	}
	if t.Status == TaskBlocked && pct >= 100 {
		return &InvalidTransitionError{Entity: "task", ID: t.ID, From: string(TaskBlocked), To: string(TaskCompleted)}
	}
	t.Progress.CompletionPercentage = pct
	if t.Status == TaskNotStarted && pct > 0 {
		t.setStatus(TaskInProgress, changedBy, "progress recorded", now)
	}
	if pct >= 100 && t.Status != TaskCompleted {
		t.setStatus(TaskCompleted, changedBy, "progress reached 100%", now)
	}
	t.UpdatedAt = now
	return nil
}

// setStatus applies a sanctioned status change and its side effects.
// Callers validate first.
func (t *Task) setStatus(target TaskStatus, changedBy, reason string, now time.Time) {
	t.Status = target
	if target == TaskCompleted {
		t.CompletedAt = &now
		t.Progress.CompletionPercentage = 100
		t.Progress.RemainingWork = 0
	}
	t.StatusHistory = appendHistory(t.StatusHistory, string(target), changedBy, reason, now)
	t.UpdatedAt = now
}

// AddDependsOn inserts a task id into the dependsOn set. Reports
// whether the set changed.
func (t *Task) AddDependsOn(id string) bool {
	if slices.Contains(t.DependsOn, id) {
		return false
	}
	t.DependsOn = append(t.DependsOn, id)
	return true
}

func (t *Task) RemoveDependsOn(id string) bool {
	before := len(t.DependsOn)
	t.DependsOn = slices.DeleteFunc(t.DependsOn, func(s string) bool { return s == id })
	return len(t.DependsOn) != before
}

// AddBlockedBy inserts a task id into the blockedBy set. Reports
// whether the set changed.
func (t *Task) AddBlockedBy(id string) bool {
	if slices.Contains(t.BlockedBy, id) {
		return false
	}
	t.BlockedBy = append(t.BlockedBy, id)
	return true
}

func (t *Task) RemoveBlockedBy(id string) bool {
	before := len(t.BlockedBy)
	t.BlockedBy = slices.DeleteFunc(t.BlockedBy, func(s string) bool { return s == id })
	return len(t.BlockedBy) != before
}

// AppendComment adds a comment to the ordered thread.
func (t *Task) AppendComment(c Comment) {
	t.Comments = append(t.Comments, c)
	t.UpdatedAt = c.CreatedAt
}
