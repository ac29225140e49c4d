package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// Caller fixtures. Tests default to an admin of the given organization
// so that privileged paths (project create, reopen) are exercisable.

func AdminCaller(orgID string) tenancy.Caller {
	return tenancy.Caller{SubjectID: "test-admin", OrganizationID: orgID, Role: tenancy.RoleAdmin}
}

func ManagerCaller(orgID string) tenancy.Caller {
	return tenancy.Caller{SubjectID: "test-manager", OrganizationID: orgID, Role: tenancy.RoleProjectManager}
}

func MemberCaller(orgID string) tenancy.Caller {
	return tenancy.Caller{SubjectID: "test-member", OrganizationID: orgID, Role: tenancy.RoleMember}
}

func SuperCaller() tenancy.Caller {
	return tenancy.Caller{SubjectID: "test-super", Role: tenancy.RoleSuperAdmin}
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithTeamMembers(ids ...string) ProjectOption {
	return func(p *domain.Project) {
		p.TeamMemberIDs = ids
	}
}

func WithManager(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ProjectManagerID = id
	}
}

func WithProjectDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = &d
	}
}

func NewTestProject(orgID, name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Status:         domain.ProjectPlanning,
		Priority:       domain.PriorityMedium,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: string(domain.ProjectPlanning), Timestamp: now, ChangedBy: "test", Reason: "created"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
		if s == domain.TaskCompleted {
			now := time.Now().UTC()
			t.CompletedAt = &now
			t.Progress.CompletionPercentage = 100
		}
	}
}

func WithAssignee(memberID string) TaskOption {
	return func(t *domain.Task) {
		t.AssignedTo = memberID
	}
}

func WithEstimatedHours(h float64) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedHours = h
	}
}

func WithCompletion(pct float64) TaskOption {
	return func(t *domain.Task) {
		t.Progress.CompletionPercentage = pct
	}
}

func WithDependsOn(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.DependsOn = ids
	}
}

func WithBlockedBy(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.BlockedBy = ids
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentTaskID = id
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func NewTestTask(orgID, projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ProjectID:      projectID,
		Name:           name,
		Status:         domain.TaskNotStarted,
		Priority:       domain.PriorityMedium,
		Complexity:     domain.ComplexityModerate,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: string(domain.TaskNotStarted), Timestamp: now, ChangedBy: "test", Reason: "created"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// TeamMember options
type MemberOption func(*domain.TeamMember)

func WithHoursPerWeek(h float64) MemberOption {
	return func(m *domain.TeamMember) {
		m.Capacity.HoursPerWeek = h
	}
}

func WithMemberStatus(s domain.MemberStatus) MemberOption {
	return func(m *domain.TeamMember) {
		m.Status = s
	}
}

func WithSkills(skills ...string) MemberOption {
	return func(m *domain.TeamMember) {
		m.Skills = skills
	}
}

func WithCurrentProjects(ids ...string) MemberOption {
	return func(m *domain.TeamMember) {
		m.CurrentProjectIDs = ids
	}
}

func NewTestMember(orgID, name string, opts ...MemberOption) *domain.TeamMember {
	now := time.Now().UTC()
	m := &domain.TeamMember{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Role:           "developer",
		Capacity:       domain.Capacity{HoursPerWeek: 40, Availability: domain.AvailabilityFullTime},
		Status:         domain.MemberActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
