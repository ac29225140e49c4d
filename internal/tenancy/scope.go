package tenancy

import (
	"fmt"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleMember         Role = "member"

	// RoleSuperAdmin is the designated super-tenant role. It is the only
	// role that may operate without an organization and spans all of them.
	RoleSuperAdmin Role = "super_admin"
)

// Caller identifies who performs an operation. Every engine operation
// takes a Caller explicitly; there is no ambient identity.
type Caller struct {
	SubjectID      string
	OrganizationID string
	Role           Role
}

// Scope is the organization predicate derived from a Caller. The zero
// value matches nothing; construction goes through Caller.Scope.
type Scope struct {
	orgID string
	all   bool
}

// Scope derives the query scope for the caller. A caller without an
// organization fails closed unless it holds the super_admin role.
func (c Caller) Scope() (Scope, error) {
	if c.Role == RoleSuperAdmin {
		return Scope{all: true}, nil
	}
	if c.OrganizationID == "" {
		return Scope{}, fmt.Errorf("caller %q has no organization: %w", c.SubjectID, domain.ErrUnauthorized)
	}
	return Scope{orgID: c.OrganizationID}, nil
}

// CanReopen reports whether the caller's role may force a terminal task
// back to in_progress.
func (c Caller) CanReopen() bool {
	switch c.Role {
	case RoleAdmin, RoleProjectManager, RoleSuperAdmin:
		return true
	}
	return false
}

// Filter returns a SQL predicate fragment for the given column plus its
// arguments. The fragment starts with " AND" so it appends to an
// existing WHERE clause; it is empty for the all-organizations scope.
func (s Scope) Filter(column string) (string, []any) {
	if s.all {
		return "", nil
	}
	return fmt.Sprintf(" AND %s = ?", column), []any{s.orgID}
}

// OrgScope returns a scope bound to the given organization. Internal
// recompute paths use it to act within a document's own organization
// regardless of how wide the caller's scope is.
func OrgScope(orgID string) Scope {
	return Scope{orgID: orgID}
}

// Covers reports whether a document in the given organization is
// visible under this scope.
func (s Scope) Covers(orgID string) bool {
	if s.all {
		return true
	}
	return s.orgID != "" && s.orgID == orgID
}

// OrgID returns the organization this scope is bound to, empty for the
// all-organizations scope.
func (s Scope) OrgID() string { return s.orgID }

// All reports whether the scope spans every organization.
func (s Scope) All() bool { return s.all }
