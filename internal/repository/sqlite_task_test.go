package repository_test

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

func TestTaskRepo_CreateGetRoundtrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	task := testutil.NewTestTask("org-a", "proj-1", "Design schema",
		testutil.WithEstimatedHours(8),
		testutil.WithDependsOn("dep-1", "dep-2"),
	)
	task.Comments = []domain.Comment{{ID: "c1", AuthorID: "u1", Body: "first", CreatedAt: task.CreatedAt}}
	require.NoError(t, repo.Create(ctx, task))
	assert.Equal(t, int64(1), task.Version)

	got, err := repo.GetByID(ctx, tenancy.OrgScope("org-a"), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, domain.TaskNotStarted, got.Status)
	assert.Equal(t, []string{"dep-1", "dep-2"}, got.DependsOn)
	assert.Len(t, got.Comments, 1)
	assert.Len(t, got.StatusHistory, 1)
	assert.Equal(t, int64(1), got.Version)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)

	_, err := repo.GetByID(context.Background(), tenancy.OrgScope("org-a"), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepo_ScopeHidesOtherOrganizations(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	task := testutil.NewTestTask("org-a", "proj-1", "Hidden")
	require.NoError(t, repo.Create(ctx, task))

	// A scope for another organization cannot see the document.
	_, err := repo.GetByID(ctx, tenancy.OrgScope("org-b"), task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The all-organizations scope can.
	super, err := testutil.SuperCaller().Scope()
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, super, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestTaskRepo_ListByProjectAndAssignee(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()
	scope := tenancy.OrgScope("org-a")

	t1 := testutil.NewTestTask("org-a", "proj-1", "One", testutil.WithAssignee("m1"))
	t2 := testutil.NewTestTask("org-a", "proj-1", "Two")
	t3 := testutil.NewTestTask("org-a", "proj-2", "Three", testutil.WithAssignee("m1"))
	for _, task := range []*domain.Task{t1, t2, t3} {
		require.NoError(t, repo.Create(ctx, task))
	}

	byProject, err := repo.ListByProject(ctx, scope, "proj-1")
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byAssignee, err := repo.ListByAssignee(ctx, scope, "m1")
	require.NoError(t, err)
	assert.Len(t, byAssignee, 2)

	all, err := repo.ListByOrganization(ctx, "org-a")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskRepo_Update_BumpsVersionAndSyncsColumns(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()
	scope := tenancy.OrgScope("org-a")

	task := testutil.NewTestTask("org-a", "proj-1", "Shift")
	require.NoError(t, repo.Create(ctx, task))

	task.AssignedTo = "m9"
	task.Status = domain.TaskInProgress
	require.NoError(t, repo.Update(ctx, task))
	assert.Equal(t, int64(2), task.Version)

	// The extracted assignee column must reflect the document.
	byAssignee, err := repo.ListByAssignee(ctx, scope, "m9")
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, domain.TaskInProgress, byAssignee[0].Status)
}

func TestTaskRepo_Update_StaleVersionConflict(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()
	scope := tenancy.OrgScope("org-a")

	task := testutil.NewTestTask("org-a", "proj-1", "Contended")
	require.NoError(t, repo.Create(ctx, task))

	// Two readers hold the same version.
	first, err := repo.GetByID(ctx, scope, task.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, scope, task.ID)
	require.NoError(t, err)

	first.Name = "first writer"
	require.NoError(t, repo.Update(ctx, first))

	second.Name = "second writer"
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	// The first write survived untouched.
	got, err := repo.GetByID(ctx, scope, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Name)
}

func TestTaskRepo_Update_MissingRowIsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	task := testutil.NewTestTask("org-a", "proj-1", "Ghost")
	task.Version = 1
	err := repo.Update(ctx, task)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()
	scope := tenancy.OrgScope("org-a")

	task := testutil.NewTestTask("org-a", "proj-1", "Doomed")
	require.NoError(t, repo.Create(ctx, task))

	// Deleting through a foreign scope fails closed.
	err := repo.Delete(ctx, tenancy.OrgScope("org-b"), task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, scope, task.ID))
	_, err = repo.GetByID(ctx, scope, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
