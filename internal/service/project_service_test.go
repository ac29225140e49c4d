package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
	"github.com/wilfredeveloper/barka-sub001/internal/testutil"
)

func TestProjectCreate_RoleGateAndDefaults(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.projects.Create(ctx, testutil.MemberCaller("org-a"), CreateProjectInput{Name: "Nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	project, err := e.projects.Create(ctx, testutil.ManagerCaller("org-a"), CreateProjectInput{Name: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanning, project.Status)
	assert.Equal(t, domain.PriorityMedium, project.Priority)
	assert.Equal(t, "org-a", project.OrganizationID)
	require.Len(t, project.StatusHistory, 1)
	assert.Equal(t, "created", project.StatusHistory[0].Reason)
}

func TestProjectCreate_TeamMembersGetBackReferences(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	m1 := e.seedMember(t, "org-a", "Priya")
	m2 := e.seedMember(t, "org-a", "Noor")

	project, err := e.projects.Create(ctx, caller, CreateProjectInput{
		Name:             "Launch",
		TeamMemberIDs:    []string{m1.ID, m2.ID},
		ProjectManagerID: m1.ID,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{m1.ID, m2.ID}, project.TeamMemberIDs)

	got, err := e.memberRepo.GetByID(ctx, tenancy.OrgScope("org-a"), m1.ID)
	require.NoError(t, err)
	assert.Contains(t, got.CurrentProjectIDs, project.ID)

	_, err = e.projects.Create(ctx, caller, CreateProjectInput{
		Name:          "Broken",
		TeamMemberIDs: []string{"ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestProjectTransitions_StrictTable(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project, err := e.projects.Create(ctx, caller, CreateProjectInput{Name: "Launch"})
	require.NoError(t, err)

	// planning -> completed skips activation.
	_, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectCompleted, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectActive, "go")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, got.Status)

	got, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectOnHold, "budget freeze")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectOnHold, got.Status)

	// An on-hold project must reactivate before it can be cancelled.
	_, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectCancelled, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectActive, "thaw")
	require.NoError(t, err)
	got, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectCompleted, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Terminal projects stay terminal; there is no project reopen.
	_, err = e.projects.TransitionStatus(ctx, caller, project.ID, domain.ProjectActive, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, got.StatusHistory, 5)
}

func TestRecomputeProgress_ExplicitAndIdempotent(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")

	e.seedTask(t, "org-a", project.ID, "Done", testutil.WithTaskStatus(domain.TaskCompleted))
	e.seedTask(t, "org-a", project.ID, "Half", testutil.WithTaskStatus(domain.TaskInProgress), testutil.WithCompletion(50))

	pct, err := e.projects.RecomputeProgress(ctx, caller, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, pct)

	// A second recompute over the same task set lands on the same value.
	pct, err = e.projects.RecomputeProgress(ctx, caller, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, pct)
}

func TestRecomputeProgress_NoEligibleTasksIsZero(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Empty")

	pct, err := e.projects.RecomputeProgress(ctx, caller, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	e.seedTask(t, "org-a", project.ID, "Dropped", testutil.WithTaskStatus(domain.TaskCancelled))
	pct, err = e.projects.RecomputeProgress(ctx, caller, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct, "cancelled tasks never enter the mean")
}

func TestProjectTeamMembership_BackReferencesBothWays(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	member := e.seedMember(t, "org-a", "Priya")

	require.NoError(t, e.projects.AddTeamMember(ctx, caller, project.ID, member.ID))
	// Re-adding is a no-op.
	require.NoError(t, e.projects.AddTeamMember(ctx, caller, project.ID, member.ID))

	scope := tenancy.OrgScope("org-a")
	gotProject, err := e.projectRepo.GetByID(ctx, scope, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{member.ID}, gotProject.TeamMemberIDs)
	gotMember, err := e.memberRepo.GetByID(ctx, scope, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{project.ID}, gotMember.CurrentProjectIDs)

	err = e.projects.AddTeamMember(ctx, caller, project.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	require.NoError(t, e.projects.RemoveTeamMember(ctx, caller, project.ID, member.ID))
	gotProject, err = e.projectRepo.GetByID(ctx, scope, project.ID)
	require.NoError(t, err)
	assert.Empty(t, gotProject.TeamMemberIDs)
	gotMember, err = e.memberRepo.GetByID(ctx, scope, member.ID)
	require.NoError(t, err)
	assert.Empty(t, gotMember.CurrentProjectIDs)
}

func TestProjectMilestones(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")

	require.NoError(t, e.projects.AddMilestone(ctx, caller, project.ID, domain.Milestone{Name: "Design freeze"}))
	assert.Error(t, e.projects.AddMilestone(ctx, caller, project.ID, domain.Milestone{}))

	require.NoError(t, e.projects.CompleteMilestone(ctx, caller, project.ID, "Design freeze"))
	// Completing again is a no-op; a missing name is an error.
	require.NoError(t, e.projects.CompleteMilestone(ctx, caller, project.ID, "Design freeze"))
	assert.Error(t, e.projects.CompleteMilestone(ctx, caller, project.ID, "Ship it"))

	got, err := e.projectRepo.GetByID(ctx, tenancy.OrgScope("org-a"), project.ID)
	require.NoError(t, err)
	require.Len(t, got.Milestones, 1)
	assert.Equal(t, domain.MilestoneCompleted, got.Milestones[0].Status)
}

func TestProjectDelete_BlockedByTasksThenSucceeds(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	member := e.seedMember(t, "org-a", "Priya", testutil.WithCurrentProjects(project.ID))
	task := e.seedTask(t, "org-a", project.ID, "Work")

	require.NoError(t, e.projects.AddTeamMember(ctx, caller, project.ID, member.ID))

	err := e.projects.Delete(ctx, caller, project.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents, "a project with tasks cannot be deleted")

	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))
	require.NoError(t, e.projects.Delete(ctx, caller, project.ID))

	scope := tenancy.OrgScope("org-a")
	_, err = e.projectRepo.GetByID(ctx, scope, project.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Membership back-reference is detached in the same transaction.
	gotMember, err := e.memberRepo.GetByID(ctx, scope, member.ID)
	require.NoError(t, err)
	assert.NotContains(t, gotMember.CurrentProjectIDs, project.ID)

	entries, err := e.trashRepo.List(ctx, scope)
	require.NoError(t, err)
	var kinds []domain.EntityKind
	for _, entry := range entries {
		kinds = append(kinds, entry.EntityType)
	}
	assert.Contains(t, kinds, domain.KindProject)
}

func TestProjectDelete_RoleGate(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	project := e.seedProject(t, "org-a", "Launch")

	err := e.projects.Delete(ctx, testutil.MemberCaller("org-a"), project.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProjectGet_DetailJoins(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	member := e.seedMember(t, "org-a", "Priya")
	project := e.seedProject(t, "org-a", "Launch", testutil.WithTeamMembers(member.ID))

	e.seedTask(t, "org-a", project.ID, "Done", testutil.WithTaskStatus(domain.TaskCompleted))
	e.seedTask(t, "org-a", project.ID, "Open")

	detail, err := e.projects.Get(ctx, caller, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.TaskCount)
	assert.Equal(t, 1, detail.CompletedTasks)
	assert.Equal(t, []string{"Priya"}, detail.TeamMemberNames)
}
