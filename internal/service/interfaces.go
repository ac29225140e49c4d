package service

import (
	"context"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/importer"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// Every operation takes the acting tenancy.Caller explicitly; services
// derive the organization scope from it and fail closed. Mutations run
// inside a unit of work with transaction-scoped repositories, so that a
// task write and its project progress recompute commit or roll back
// together.

// CreateTaskInput carries the caller-supplied fields for a new task.
// Status is not an input: tasks always start in not_started.
type CreateTaskInput struct {
	ProjectID      string
	Name           string
	Description    string
	Priority       domain.Priority
	Complexity     domain.Complexity
	AssignedTo     string
	EstimatedHours float64
	DependsOn      []string
	ParentTaskID   string
	StartDate      *time.Time
	DueDate        *time.Time
}

// UpdateTaskInput patches task detail fields. Nil fields are left
// untouched; status and progress have their own operations.
type UpdateTaskInput struct {
	Name           *string
	Description    *string
	Priority       *domain.Priority
	Complexity     *domain.Complexity
	EstimatedHours *float64
	StartDate      *time.Time
	DueDate        *time.Time
}

// ProgressUpdate carries exactly one progress mode: either the direct
// percentage, or both time figures.
type ProgressUpdate struct {
	CompletionPercentage *float64
	TimeSpent            *float64
	RemainingWork        *float64
}

// TaskDetail is the task read model: the document plus the derived
// graph views and display names joined in the service layer.
type TaskDetail struct {
	Task         *domain.Task
	SubtaskIDs   []string
	DependentIDs []string
	ProjectName  string
	AssigneeName string
}

type TaskService interface {
	Create(ctx context.Context, caller tenancy.Caller, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, caller tenancy.Caller, id string) (*TaskDetail, error)
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.Task, error)
	ListByProject(ctx context.Context, caller tenancy.Caller, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, caller tenancy.Caller, id string, in UpdateTaskInput) (*domain.Task, error)
	TransitionStatus(ctx context.Context, caller tenancy.Caller, id string, target domain.TaskStatus, reason string) (*domain.Task, error)
	// Reopen forces a terminal task back to in_progress. Restricted to
	// admin, project_manager and super_admin; the reason is mandatory.
	Reopen(ctx context.Context, caller tenancy.Caller, id, reason string) (*domain.Task, error)
	UpdateProgress(ctx context.Context, caller tenancy.Caller, id string, in ProgressUpdate) (*domain.Task, error)
	Assign(ctx context.Context, caller tenancy.Caller, taskID, memberID string) error
	Unassign(ctx context.Context, caller tenancy.Caller, taskID string) error
	Comment(ctx context.Context, caller tenancy.Caller, taskID, body string) error
	// Delete soft-deletes the task behind a trash snapshot. Tasks that
	// other tasks depend on or parent cannot be deleted.
	Delete(ctx context.Context, caller tenancy.Caller, id string) error
}

// GraphService manages dependency, blocker and parent references
// between tasks. Every edge is validated before any write; an addition
// that would close a cycle is rejected with the graph unchanged.
type GraphService interface {
	AddDependency(ctx context.Context, caller tenancy.Caller, taskID, dependsOnID string) error
	RemoveDependency(ctx context.Context, caller tenancy.Caller, taskID, dependsOnID string) error
	AddBlocker(ctx context.Context, caller tenancy.Caller, taskID, blockerID string) error
	RemoveBlocker(ctx context.Context, caller tenancy.Caller, taskID, blockerID string) error
	SetParent(ctx context.Context, caller tenancy.Caller, taskID, parentID string) error
	ClearParent(ctx context.Context, caller tenancy.Caller, taskID string) error
	// Dependents returns the tasks whose dependsOn references taskID,
	// the "blocks" view of the graph.
	Dependents(ctx context.Context, caller tenancy.Caller, taskID string) ([]*domain.Task, error)
}

// CreateProjectInput carries the caller-supplied fields for a new
// project. Projects always start in planning.
type CreateProjectInput struct {
	Name             string
	Description      string
	Priority         domain.Priority
	StartDate        *time.Time
	DueDate          *time.Time
	Budget           float64
	TeamMemberIDs    []string
	ProjectManagerID string
}

// ProjectDetail is the project read model with task counts and team
// member names joined in.
type ProjectDetail struct {
	Project         *domain.Project
	TaskCount       int
	CompletedTasks  int
	TeamMemberNames []string
}

type ProjectService interface {
	// Create requires the admin or project_manager role.
	Create(ctx context.Context, caller tenancy.Caller, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, caller tenancy.Caller, id string) (*ProjectDetail, error)
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.Project, error)
	TransitionStatus(ctx context.Context, caller tenancy.Caller, id string, target domain.ProjectStatus, reason string) (*domain.Project, error)
	// RecomputeProgress re-derives the project completion percentage
	// from its current non-cancelled tasks and returns the new value.
	RecomputeProgress(ctx context.Context, caller tenancy.Caller, projectID string) (float64, error)
	AddTeamMember(ctx context.Context, caller tenancy.Caller, projectID, memberID string) error
	RemoveTeamMember(ctx context.Context, caller tenancy.Caller, projectID, memberID string) error
	AddMilestone(ctx context.Context, caller tenancy.Caller, projectID string, m domain.Milestone) error
	CompleteMilestone(ctx context.Context, caller tenancy.Caller, projectID, name string) error
	// Delete soft-deletes the project behind a trash snapshot. A
	// project that still has tasks cannot be deleted.
	Delete(ctx context.Context, caller tenancy.Caller, id string) error
}

// CreateMemberInput carries the caller-supplied fields for a new team
// member.
type CreateMemberInput struct {
	Name         string
	Email        string
	Role         string
	HoursPerWeek float64
	Availability domain.Availability
	Skills       []string
}

// WorkloadSummary is the derived capacity picture for one member,
// recomputed on every query.
type WorkloadSummary struct {
	MemberID        string
	MemberName      string
	HoursPerWeek    float64
	ActiveTaskCount int
	AllocatedHours  float64
	Utilization     float64
	Level           domain.WorkloadLevel
}

type TeamService interface {
	Create(ctx context.Context, caller tenancy.Caller, in CreateMemberInput) (*domain.TeamMember, error)
	Get(ctx context.Context, caller tenancy.Caller, id string) (*domain.TeamMember, error)
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.TeamMember, error)
	SetCapacity(ctx context.Context, caller tenancy.Caller, memberID string, hoursPerWeek float64, availability domain.Availability) error
	SetStatus(ctx context.Context, caller tenancy.Caller, memberID string, status domain.MemberStatus) error
	Workload(ctx context.Context, caller tenancy.Caller, memberID string) (*WorkloadSummary, error)
	// TeamWorkload derives workload summaries for every member in the
	// caller's scope.
	TeamWorkload(ctx context.Context, caller tenancy.Caller) ([]*WorkloadSummary, error)
}

// RecoveredEntity names what a trash recovery produced. Exactly one of
// Task and Project is set, matching Kind.
type RecoveredEntity struct {
	Kind    domain.EntityKind
	Task    *domain.Task
	Project *domain.Project
}

type RecoveryService interface {
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.TrashEntry, error)
	// Recover re-creates a trashed entity under a new id, dropping
	// references that no longer resolve against the live graph.
	Recover(ctx context.Context, caller tenancy.Caller, trashID string) (*RecoveredEntity, error)
	// PurgeExpired permanently removes trash entries past their
	// recovery window and reports how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}

// ImportResult summarizes a workspace import.
type ImportResult struct {
	OrganizationID  string
	ProjectCount    int
	TaskCount       int
	MemberCount     int
	DependencyCount int
}

type ImportService interface {
	ImportWorkspace(ctx context.Context, caller tenancy.Caller, filePath string) (*ImportResult, error)
	ImportWorkspaceFromSchema(ctx context.Context, caller tenancy.Caller, schema *importer.WorkspaceSchema) (*ImportResult, error)
}
