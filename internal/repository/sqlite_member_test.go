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

func TestTeamMemberRepo_CreateGetRoundtrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTeamMemberRepo(database)
	ctx := context.Background()

	m := testutil.NewTestMember("org-a", "Priya",
		testutil.WithHoursPerWeek(32),
		testutil.WithSkills("go", "sql"),
		testutil.WithCurrentProjects("p1"),
	)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, tenancy.OrgScope("org-a"), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya", got.Name)
	assert.Equal(t, 32.0, got.Capacity.HoursPerWeek)
	assert.Equal(t, domain.AvailabilityFullTime, got.Capacity.Availability)
	assert.Equal(t, []string{"p1"}, got.CurrentProjectIDs)
}

func TestTeamMemberRepo_Update_SyncsStatusColumnAndVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTeamMemberRepo(database)
	ctx := context.Background()
	scope := tenancy.OrgScope("org-a")

	m := testutil.NewTestMember("org-a", "Priya")
	require.NoError(t, repo.Create(ctx, m))

	stale, err := repo.GetByID(ctx, scope, m.ID)
	require.NoError(t, err)

	m.Status = domain.MemberOnLeave
	require.NoError(t, repo.Update(ctx, m))
	assert.Equal(t, int64(2), m.Version)

	stale.Status = domain.MemberInactive
	err = repo.Update(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestTeamMemberRepo_List_ScopeBoundary(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTeamMemberRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestMember("org-a", "A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMember("org-b", "B")))

	members, err := repo.List(ctx, tenancy.OrgScope("org-a"))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "A", members[0].Name)
}
