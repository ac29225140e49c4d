package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
	"github.com/wilfredeveloper/barka-sub001/internal/testutil"
)

// trashEntryFor finds the trash entry snapshotting the given entity id.
func trashEntryFor(t *testing.T, e *testEngine, orgID, entityID string) *domain.TrashEntry {
	t.Helper()
	entries, err := e.trashRepo.List(context.Background(), tenancy.OrgScope(orgID))
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.EntityID == entityID {
			return entry
		}
	}
	t.Fatalf("no trash entry for entity %s", entityID)
	return nil
}

func TestRecoverTask_NewIDHistoryAndRecompute(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	task := e.seedTask(t, "org-a", project.ID, "Resurrected",
		testutil.WithTaskStatus(domain.TaskInProgress), testutil.WithCompletion(50))

	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))
	entry := trashEntryFor(t, e, "org-a", task.ID)

	recovered, err := e.recovery.Recover(ctx, caller, entry.ID)
	require.NoError(t, err)
	require.Equal(t, domain.KindTask, recovered.Kind)
	require.NotNil(t, recovered.Task)
	assert.NotEqual(t, task.ID, recovered.Task.ID, "recovery assigns a new id")
	assert.Equal(t, domain.TaskInProgress, recovered.Task.Status)

	last := recovered.Task.StatusHistory[len(recovered.Task.StatusHistory)-1]
	assert.Equal(t, "restored from trash", last.Reason)

	// The entry is consumed and the project mean includes the task again.
	scope := tenancy.OrgScope("org-a")
	_, err = e.trashRepo.GetByID(ctx, scope, entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	fresh, err := e.projectRepo.GetByID(ctx, scope, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fresh.Progress.CompletionPercentage)
}

func TestRecoverTask_DropsDanglingReferences(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")

	dep := e.seedTask(t, "org-a", project.ID, "Dependency")
	keeper := e.seedTask(t, "org-a", project.ID, "Keeper")
	member := e.seedMember(t, "org-a", "Priya")
	task := e.seedTask(t, "org-a", project.ID, "Victim",
		testutil.WithDependsOn(dep.ID, keeper.ID),
		testutil.WithAssignee(member.ID))

	// Delete the task first, then one of its dependencies, so the
	// snapshot holds a reference the live graph no longer resolves.
	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))
	require.NoError(t, e.tasks.Delete(ctx, caller, dep.ID))
	require.NoError(t, e.memberRepo.Delete(ctx, tenancy.OrgScope("org-a"), member.ID))

	entry := trashEntryFor(t, e, "org-a", task.ID)
	recovered, err := e.recovery.Recover(ctx, caller, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{keeper.ID}, recovered.Task.DependsOn, "dangling dependency dropped, live one kept")
	assert.Empty(t, recovered.Task.AssignedTo, "dangling assignee dropped")
}

func TestRecoverTask_ParentProjectMustBeLive(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	task := e.seedTask(t, "org-a", project.ID, "Orphan")

	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))
	require.NoError(t, e.projects.Delete(ctx, caller, project.ID))

	entry := trashEntryFor(t, e, "org-a", task.ID)
	_, err := e.recovery.Recover(ctx, caller, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestRecoverProject_ReattachesLiveMembers(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	member := e.seedMember(t, "org-a", "Priya")
	ghost := e.seedMember(t, "org-a", "Ghost")
	project := e.seedProject(t, "org-a", "Launch",
		testutil.WithTeamMembers(member.ID, ghost.ID), testutil.WithManager(ghost.ID))

	require.NoError(t, e.projects.Delete(ctx, caller, project.ID))
	require.NoError(t, e.memberRepo.Delete(ctx, tenancy.OrgScope("org-a"), ghost.ID))

	entry := trashEntryFor(t, e, "org-a", project.ID)
	recovered, err := e.recovery.Recover(ctx, caller, entry.ID)
	require.NoError(t, err)
	require.Equal(t, domain.KindProject, recovered.Kind)
	require.NotNil(t, recovered.Project)

	assert.NotEqual(t, project.ID, recovered.Project.ID)
	assert.Equal(t, []string{member.ID}, recovered.Project.TeamMemberIDs, "vanished member dropped")
	assert.Empty(t, recovered.Project.ProjectManagerID, "vanished manager dropped")

	got, err := e.memberRepo.GetByID(ctx, tenancy.OrgScope("org-a"), member.ID)
	require.NoError(t, err)
	assert.Contains(t, got.CurrentProjectIDs, recovered.Project.ID)
}

func TestRecover_ExpiredAndMissingEntries(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")

	_, err := e.recovery.Recover(ctx, caller, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	project := e.seedProject(t, "org-a", "Launch")
	task := e.seedTask(t, "org-a", project.ID, "Stale")
	doc, err := json.Marshal(task)
	require.NoError(t, err)
	now := time.Now().UTC()
	expired := &domain.TrashEntry{
		ID:             uuid.New().String(),
		OrganizationID: "org-a",
		EntityType:     domain.KindTask,
		EntityID:       task.ID,
		Document:       string(doc),
		DeletedBy:      "tester",
		DeletedAt:      now.Add(-48 * time.Hour),
		ExpiresAt:      now.Add(-time.Hour),
	}
	require.NoError(t, e.trashRepo.Create(ctx, expired))

	_, err = e.recovery.Recover(ctx, caller, expired.ID)
	assert.ErrorIs(t, err, domain.ErrRecoveryExpired)
}

func TestRecover_TenancyBoundary(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	task := e.seedTask(t, "org-a", project.ID, "Private")

	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))
	entry := trashEntryFor(t, e, "org-a", task.ID)

	_, err := e.recovery.Recover(ctx, testutil.AdminCaller("org-b"), entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := e.recovery.List(ctx, testutil.AdminCaller("org-b"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurgeExpired_RemovesOnlyStaleEntries(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	task := e.seedTask(t, "org-a", project.ID, "Fresh")
	require.NoError(t, e.tasks.Delete(ctx, caller, task.ID))

	now := time.Now().UTC()
	stale := &domain.TrashEntry{
		ID:             uuid.New().String(),
		OrganizationID: "org-a",
		EntityType:     domain.KindTask,
		EntityID:       "long-gone",
		Document:       "{}",
		DeletedBy:      "tester",
		DeletedAt:      now.Add(-31 * 24 * time.Hour),
		ExpiresAt:      now.Add(-24 * time.Hour),
	}
	require.NoError(t, e.trashRepo.Create(ctx, stale))

	purged, err := e.recovery.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	entries, err := e.recovery.List(ctx, caller)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, task.ID, entries[0].EntityID)
}
