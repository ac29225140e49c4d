package domain

import (
	"fmt"
	"slices"
	"time"
)

type Milestone struct {
	Name    string          `json:"name"`
	DueDate *time.Time      `json:"dueDate,omitempty"`
	Status  MilestoneStatus `json:"status"`
}

// ProjectProgress is derived from the project's non-cancelled tasks and
// overwritten on every recompute; it is never edited directly.
type ProjectProgress struct {
	CompletionPercentage float64 `json:"completionPercentage"`
}

type Project struct {
	ID               string               `json:"id"`
	OrganizationID   string               `json:"organizationId"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	Status           ProjectStatus        `json:"status"`
	Priority         Priority             `json:"priority"`
	StartDate        *time.Time           `json:"startDate,omitempty"`
	DueDate          *time.Time           `json:"dueDate,omitempty"`
	Budget           float64              `json:"budget,omitempty"`
	Progress         ProjectProgress      `json:"progress"`
	StatusHistory    []StatusHistoryEntry `json:"statusHistory"`
	TeamMemberIDs    []string             `json:"teamMemberIds,omitempty"`
	ProjectManagerID string               `json:"projectManagerId,omitempty"`
	Milestones       []Milestone          `json:"milestones,omitempty"`
	CompletedAt      *time.Time           `json:"completedAt,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`

	// Version is the optimistic concurrency counter maintained by the
	// repository. It is a storage concern, not part of the document.
	Version int64 `json:"-"`
}

// projectTransitions lists the accepted target statuses per current
// status. Cancelling an on_hold project requires reactivating it first.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectPlanning:  {ProjectActive},
	ProjectActive:    {ProjectOnHold, ProjectCompleted, ProjectCancelled},
	ProjectOnHold:    {ProjectActive},
	ProjectCompleted: nil,
	ProjectCancelled: nil,
}

func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	return slices.Contains(projectTransitions[s], target)
}

// TransitionTo applies a caller-requested status change. Rejected
// changes leave the project, including its history, untouched.
func (p *Project) TransitionTo(target ProjectStatus, changedBy, reason string, now time.Time) error {
	if !p.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: "project", ID: p.ID, From: string(p.Status), To: string(target)}
	}
	p.Status = target
	if target == ProjectCompleted {
		p.CompletedAt = &now
	}
	p.StatusHistory = appendHistory(p.StatusHistory, string(target), changedBy, reason, now)
	p.UpdatedAt = now
	return nil
}

// SetProgress records the recomputed completion percentage.
func (p *Project) SetProgress(pct float64, now time.Time) {
	p.Progress.CompletionPercentage = pct
	p.UpdatedAt = now
}

// AddTeamMember inserts a member id into the team set. Reports whether
// the set changed.
func (p *Project) AddTeamMember(id string) bool {
	if slices.Contains(p.TeamMemberIDs, id) {
		return false
	}
	p.TeamMemberIDs = append(p.TeamMemberIDs, id)
	return true
}

func (p *Project) RemoveTeamMember(id string) bool {
	before := len(p.TeamMemberIDs)
	p.TeamMemberIDs = slices.DeleteFunc(p.TeamMemberIDs, func(s string) bool { return s == id })
	return len(p.TeamMemberIDs) != before
}

// AddMilestone appends a milestone to the ordered list.
func (p *Project) AddMilestone(m Milestone, now time.Time) {
	if m.Status == "" {
		m.Status = MilestonePending
	}
	p.Milestones = append(p.Milestones, m)
	p.UpdatedAt = now
}

// CompleteMilestone marks the named milestone completed. Completing an
// already completed milestone is a no-op.
func (p *Project) CompleteMilestone(name string, now time.Time) error {
	for i := range p.Milestones {
		if p.Milestones[i].Name != name {
			continue
		}
		if p.Milestones[i].Status != MilestoneCompleted {
			p.Milestones[i].Status = MilestoneCompleted
			p.UpdatedAt = now
		}
		return nil
	}
	return fmt.Errorf("milestone %q not found on project %s", name, p.ID)
}
