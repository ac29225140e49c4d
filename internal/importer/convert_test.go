package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

func TestConvert_ResolvesRefsAndCascadesDefaults(t *testing.T) {
	hours := 12.0
	weekly := 24.0
	schema := &WorkspaceSchema{
		OrganizationID: "org-a",
		Defaults: &DefaultsImport{
			Priority:       "high",
			Complexity:     "complex",
			EstimatedHours: &hours,
			HoursPerWeek:   &weekly,
		},
		Members: []MemberImport{
			{Ref: "alice", Name: "Alice"},
			{Ref: "bob", Name: "Bob", HoursPerWeek: ptrf(16), Availability: "contract"},
		},
		Projects: []ProjectImport{
			{Ref: "p1", Name: "Launch", Status: "active", ManagerRef: "alice",
				TeamRefs:   []string{"alice"},
				Milestones: []MilestoneImport{{Name: "Beta", DueDate: ptrs("2026-09-01")}}},
		},
		Tasks: []TaskImport{
			{Ref: "t1", ProjectRef: "p1", Name: "First", Priority: "low", EstimatedHours: ptrf(3)},
			{Ref: "t2", ProjectRef: "p1", Name: "Second", AssignedRef: "bob", ParentRef: "t1"},
		},
		Dependencies: []DependencyImport{
			{TaskRef: "t2", DependsOnRef: "t1"},
		},
	}

	ws := Convert(schema, "importer")
	require.Len(t, ws.Members, 2)
	require.Len(t, ws.Projects, 1)
	require.Len(t, ws.Tasks, 2)
	assert.Equal(t, 1, ws.DependencyCount)

	alice, bob := ws.Members[0], ws.Members[1]
	assert.Equal(t, 24.0, alice.Capacity.HoursPerWeek, "workspace default applies")
	assert.Equal(t, domain.AvailabilityFullTime, alice.Capacity.Availability)
	assert.Equal(t, 16.0, bob.Capacity.HoursPerWeek, "explicit value wins over default")
	assert.Equal(t, domain.AvailabilityContract, bob.Capacity.Availability)

	project := ws.Projects[0]
	assert.Equal(t, "org-a", project.OrganizationID)
	assert.Equal(t, domain.ProjectActive, project.Status)
	assert.Equal(t, alice.ID, project.ProjectManagerID)
	require.Len(t, project.Milestones, 1)
	assert.Equal(t, domain.MilestonePending, project.Milestones[0].Status)
	require.NotNil(t, project.Milestones[0].DueDate)
	require.Len(t, project.StatusHistory, 1)
	assert.Equal(t, "imported", project.StatusHistory[0].Reason)
	assert.Equal(t, "importer", project.StatusHistory[0].ChangedBy)

	first, second := ws.Tasks[0], ws.Tasks[1]
	assert.Equal(t, project.ID, first.ProjectID)
	assert.Equal(t, domain.PriorityLow, first.Priority, "explicit priority wins")
	assert.Equal(t, 3.0, first.EstimatedHours)
	assert.Equal(t, domain.PriorityHigh, second.Priority, "default priority cascades")
	assert.Equal(t, domain.ComplexityComplex, second.Complexity)
	assert.Equal(t, 12.0, second.EstimatedHours)
	assert.Equal(t, first.ID, second.ParentTaskID, "forward parent refs resolve")
	assert.Equal(t, []string{first.ID}, second.DependsOn)

	// Assignment wires membership on both sides.
	assert.Equal(t, bob.ID, second.AssignedTo)
	assert.Contains(t, project.TeamMemberIDs, bob.ID)
	assert.Contains(t, bob.CurrentProjectIDs, project.ID)
}

func TestConvert_CompletedTaskForcesFullProgress(t *testing.T) {
	schema := &WorkspaceSchema{
		OrganizationID: "org-a",
		Projects:       []ProjectImport{{Ref: "p1", Name: "P"}},
		Tasks: []TaskImport{
			{Ref: "t1", ProjectRef: "p1", Name: "Done", Status: "completed", CompletionPercentage: ptrf(100)},
		},
	}

	ws := Convert(schema, "importer")
	task := ws.Tasks[0]
	assert.Equal(t, domain.TaskCompleted, task.Status)
	assert.Equal(t, 100.0, task.Progress.CompletionPercentage)
	assert.NotNil(t, task.CompletedAt)

	assert.Equal(t, domain.ProjectPlanning, ws.Projects[0].Status, "status defaults to planning")
}

func ptrf(v float64) *float64 { return &v }
func ptrs(v string) *string   { return &v }

func TestDefaultsCascadeHelpers(t *testing.T) {
	assert.Equal(t, "high", firstNonEmpty("", "high", "medium"))
	assert.Equal(t, "medium", firstNonEmpty("", "", "medium"))
	assert.Equal(t, "", firstNonEmpty("", ""))

	zero := 0.0
	eight := 8.0
	assert.Equal(t, 8.0, float64OrDefault(40, nil, &eight))
	assert.Equal(t, 0.0, float64OrDefault(40, &zero, &eight), "an explicit zero is kept")
	assert.Equal(t, 40.0, float64OrDefault(40, nil, nil))
}
