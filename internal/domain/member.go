package domain

import (
	"slices"
	"time"
)

// Capacity declares how much work a member can take on. Workload
// figures are derived from it at query time, never stored.
type Capacity struct {
	HoursPerWeek float64      `json:"hoursPerWeek"`
	Availability Availability `json:"availability"`
}

type TeamMember struct {
	ID                string       `json:"id"`
	OrganizationID    string       `json:"organizationId"`
	Name              string       `json:"name"`
	Email             string       `json:"email,omitempty"`
	Role              string       `json:"role,omitempty"`
	Capacity          Capacity     `json:"capacity"`
	Skills            []string     `json:"skills,omitempty"`
	Status            MemberStatus `json:"status"`
	CurrentProjectIDs []string     `json:"currentProjectIds,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`

	// Version is the optimistic concurrency counter maintained by the
	// repository. It is a storage concern, not part of the document.
	Version int64 `json:"-"`
}

// AddProjectRef inserts a project id into the member's current
// assignment set. Reports whether the set changed.
func (m *TeamMember) AddProjectRef(id string) bool {
	if slices.Contains(m.CurrentProjectIDs, id) {
		return false
	}
	m.CurrentProjectIDs = append(m.CurrentProjectIDs, id)
	return true
}

func (m *TeamMember) RemoveProjectRef(id string) bool {
	before := len(m.CurrentProjectIDs)
	m.CurrentProjectIDs = slices.DeleteFunc(m.CurrentProjectIDs, func(s string) bool { return s == id })
	return len(m.CurrentProjectIDs) != before
}
