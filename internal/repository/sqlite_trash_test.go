package repository_test

import (
	"context"
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

func newTrashEntry(orgID string, kind domain.EntityKind, expiresAt time.Time) *domain.TrashEntry {
	now := time.Now().UTC()
	return &domain.TrashEntry{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		EntityType:     kind,
		EntityID:       uuid.New().String(),
		Document:       `{"id":"x"}`,
		DeletedBy:      "tester",
		DeletedAt:      now,
		ExpiresAt:      expiresAt,
	}
}

func TestTrashRepo_CreateGetRoundtrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTrashRepo(database)
	ctx := context.Background()

	e := newTrashEntry("org-a", domain.KindTask, time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.GetByID(ctx, tenancy.OrgScope("org-a"), e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindTask, got.EntityType)
	assert.Equal(t, e.EntityID, got.EntityID)
	assert.Equal(t, e.Document, got.Document)
	assert.False(t, got.Expired(time.Now().UTC()))
}

func TestTrashRepo_ScopeBoundary(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTrashRepo(database)
	ctx := context.Background()

	e := newTrashEntry("org-a", domain.KindProject, time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, e))

	_, err := repo.GetByID(ctx, tenancy.OrgScope("org-b"), e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := repo.List(ctx, tenancy.OrgScope("org-a"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTrashRepo_DeleteExpired(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTrashRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := newTrashEntry("org-a", domain.KindTask, now.Add(-time.Hour))
	live := newTrashEntry("org-a", domain.KindTask, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	entries, err := repo.List(ctx, tenancy.OrgScope("org-a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, live.ID, entries[0].ID)
}
