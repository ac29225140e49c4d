package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestProjectStatus_IsTerminal(t *testing.T) {
	cases := []struct {
		status   ProjectStatus
		terminal bool
	}{
		{ProjectPlanning, false},
		{ProjectActive, false},
		{ProjectOnHold, false},
		{ProjectCompleted, true},
		{ProjectCancelled, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.terminal, tc.status.IsTerminal(), "status=%s", tc.status)
	}
}

func TestProjectTransitionTo_FullPath(t *testing.T) {
	p := &Project{ID: "p1", Status: ProjectPlanning}

	require.NoError(t, p.TransitionTo(ProjectActive, "u1", "", projNow))
	require.NoError(t, p.TransitionTo(ProjectOnHold, "u1", "budget freeze", projNow))
	require.NoError(t, p.TransitionTo(ProjectActive, "u1", "budget restored", projNow))
	require.NoError(t, p.TransitionTo(ProjectCompleted, "u1", "", projNow))

	assert.Equal(t, ProjectCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)
	assert.Len(t, p.StatusHistory, 4)
}

func TestProjectTransitionTo_RejectedEdges(t *testing.T) {
	cases := []struct {
		from, to ProjectStatus
	}{
		{ProjectPlanning, ProjectCompleted},
		{ProjectPlanning, ProjectOnHold},
		{ProjectOnHold, ProjectCancelled},
		{ProjectOnHold, ProjectCompleted},
		{ProjectCompleted, ProjectActive},
		{ProjectCancelled, ProjectActive},
	}
	for _, tc := range cases {
		p := &Project{ID: "p1", Status: tc.from}
		err := p.TransitionTo(tc.to, "u1", "", projNow)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, tc.from, p.Status)
		assert.Empty(t, p.StatusHistory, "failed transition must not touch history")
	}
}

func TestProjectTransitionTo_AppendsHistoryEntry(t *testing.T) {
	p := &Project{ID: "p1", Status: ProjectPlanning}
	require.NoError(t, p.TransitionTo(ProjectActive, "pm-1", "kickoff", projNow))

	require.Len(t, p.StatusHistory, 1)
	assert.Equal(t, "active", p.StatusHistory[0].Status)
	assert.Equal(t, "pm-1", p.StatusHistory[0].ChangedBy)
	assert.Equal(t, "kickoff", p.StatusHistory[0].Reason)
}

func TestProject_TeamSetSemantics(t *testing.T) {
	p := &Project{ID: "p1"}
	assert.True(t, p.AddTeamMember("m1"))
	assert.False(t, p.AddTeamMember("m1"))
	assert.True(t, p.AddTeamMember("m2"))
	assert.Equal(t, []string{"m1", "m2"}, p.TeamMemberIDs)

	assert.True(t, p.RemoveTeamMember("m1"))
	assert.False(t, p.RemoveTeamMember("m1"))
	assert.Equal(t, []string{"m2"}, p.TeamMemberIDs)
}

func TestProject_AddMilestoneDefaultsPending(t *testing.T) {
	p := &Project{ID: "p1"}
	p.AddMilestone(Milestone{Name: "beta"}, projNow)

	require.Len(t, p.Milestones, 1)
	assert.Equal(t, MilestonePending, p.Milestones[0].Status)
}

func TestProject_CompleteMilestone(t *testing.T) {
	p := &Project{ID: "p1"}
	p.AddMilestone(Milestone{Name: "beta"}, projNow)

	require.NoError(t, p.CompleteMilestone("beta", projNow))
	assert.Equal(t, MilestoneCompleted, p.Milestones[0].Status)

	// idempotent
	require.NoError(t, p.CompleteMilestone("beta", projNow))

	err := p.CompleteMilestone("launch", projNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch")
}

func TestProject_SetProgress(t *testing.T) {
	p := &Project{ID: "p1"}
	p.SetProgress(62.5, projNow)
	assert.Equal(t, 62.5, p.Progress.CompletionPercentage)
	assert.Equal(t, projNow, p.UpdatedAt)
}

func TestMember_ProjectRefSetSemantics(t *testing.T) {
	m := &TeamMember{ID: "m1"}
	assert.True(t, m.AddProjectRef("p1"))
	assert.False(t, m.AddProjectRef("p1"))
	assert.True(t, m.RemoveProjectRef("p1"))
	assert.False(t, m.RemoveProjectRef("p1"))
	assert.Empty(t, m.CurrentProjectIDs)
}
