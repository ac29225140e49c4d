package domain

type TaskStatus string

const (
	TaskNotStarted  TaskStatus = "not_started"
	TaskInProgress  TaskStatus = "in_progress"
	TaskUnderReview TaskStatus = "under_review"
	TaskBlocked     TaskStatus = "blocked"
	TaskCompleted   TaskStatus = "completed"
	TaskCancelled   TaskStatus = "cancelled"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneCompleted MilestoneStatus = "completed"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberOnLeave  MemberStatus = "on_leave"
)

type Availability string

const (
	AvailabilityFullTime Availability = "full_time"
	AvailabilityPartTime Availability = "part_time"
	AvailabilityContract Availability = "contract"
)

type WorkloadLevel string

const (
	WorkloadLow        WorkloadLevel = "low"
	WorkloadModerate   WorkloadLevel = "moderate"
	WorkloadHigh       WorkloadLevel = "high"
	WorkloadOverloaded WorkloadLevel = "overloaded"
)

type EntityKind string

const (
	KindTask    EntityKind = "task"
	KindProject EntityKind = "project"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"not_started": true, "in_progress": true, "under_review": true,
	"blocked": true, "completed": true, "cancelled": true,
}

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planning": true, "active": true, "on_hold": true,
	"completed": true, "cancelled": true,
}

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

// ValidComplexities is the canonical set of accepted complexity strings.
var ValidComplexities = map[string]bool{
	"simple": true, "moderate": true, "complex": true,
}

// ValidAvailabilities is the canonical set of accepted availability strings.
var ValidAvailabilities = map[string]bool{
	"full_time": true, "part_time": true, "contract": true,
}
