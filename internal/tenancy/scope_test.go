package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

func TestScope_OrgBoundCaller(t *testing.T) {
	c := Caller{SubjectID: "u1", OrganizationID: "org-a", Role: RoleMember}

	scope, err := c.Scope()
	require.NoError(t, err)

	frag, args := scope.Filter("organization_id")
	assert.Equal(t, " AND organization_id = ?", frag)
	assert.Equal(t, []any{"org-a"}, args)

	assert.True(t, scope.Covers("org-a"))
	assert.False(t, scope.Covers("org-b"))
	assert.False(t, scope.All())
}

func TestScope_MissingOrganizationFailsClosed(t *testing.T) {
	c := Caller{SubjectID: "u1", Role: RoleAdmin}

	_, err := c.Scope()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestScope_SuperAdminSpansOrganizations(t *testing.T) {
	c := Caller{SubjectID: "root", Role: RoleSuperAdmin}

	scope, err := c.Scope()
	require.NoError(t, err)

	frag, args := scope.Filter("organization_id")
	assert.Empty(t, frag)
	assert.Nil(t, args)
	assert.True(t, scope.Covers("org-a"))
	assert.True(t, scope.Covers("org-b"))
	assert.True(t, scope.All())
}

func TestScope_ZeroValueMatchesNothing(t *testing.T) {
	var scope Scope
	assert.False(t, scope.Covers(""))
	assert.False(t, scope.Covers("org-a"))

	frag, args := scope.Filter("organization_id")
	assert.Equal(t, " AND organization_id = ?", frag)
	assert.Equal(t, []any{""}, args)
}

func TestCanReopen_RoleTable(t *testing.T) {
	cases := []struct {
		role    Role
		allowed bool
	}{
		{RoleAdmin, true},
		{RoleProjectManager, true},
		{RoleSuperAdmin, true},
		{RoleMember, false},
		{Role("viewer"), false},
	}
	for _, tc := range cases {
		c := Caller{SubjectID: "u1", OrganizationID: "org-a", Role: tc.role}
		assert.Equal(t, tc.allowed, c.CanReopen(), "role=%s", tc.role)
	}
}
