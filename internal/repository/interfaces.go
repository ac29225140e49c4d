package repository

import (
	"context"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// Entities are stored as whole JSON documents plus a few extracted
// filter columns. Every read takes a tenancy.Scope and composes its
// predicate first; writes address documents by id and optimistic
// version. Update increments the version counter and fails with
// ErrVersionConflict when the in-memory copy is stale.

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Project, error)
	List(ctx context.Context, scope tenancy.Scope) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Task, error)
	List(ctx context.Context, scope tenancy.Scope) ([]*domain.Task, error)
	ListByProject(ctx context.Context, scope tenancy.Scope, projectID string) ([]*domain.Task, error)
	ListByAssignee(ctx context.Context, scope tenancy.Scope, memberID string) ([]*domain.Task, error)
	// ListByOrganization loads the full task set of one organization,
	// the graph the cycle checks and deletion guards walk.
	ListByOrganization(ctx context.Context, orgID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
}

type TeamMemberRepo interface {
	Create(ctx context.Context, m *domain.TeamMember) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.TeamMember, error)
	List(ctx context.Context, scope tenancy.Scope) ([]*domain.TeamMember, error)
	Update(ctx context.Context, m *domain.TeamMember) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
}

type TrashRepo interface {
	Create(ctx context.Context, e *domain.TrashEntry) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.TrashEntry, error)
	List(ctx context.Context, scope tenancy.Scope) ([]*domain.TrashEntry, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired purges entries past their recovery window and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
