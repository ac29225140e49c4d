package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

type projectService struct {
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	members   repository.TeamMemberRepo
	uow       db.UnitOfWork
	retention time.Duration
	observer  OperationObserver
}

// NewProjectService creates the project lifecycle service. retention is
// the recovery window granted to soft-deleted projects.
func NewProjectService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	members repository.TeamMemberRepo,
	uow db.UnitOfWork,
	retention time.Duration,
	observers ...OperationObserver,
) ProjectService {
	return &projectService{
		projects:  projects,
		tasks:     tasks,
		members:   members,
		uow:       uow,
		retention: retention,
		observer:  observerOrNoop(observers),
	}
}

// canManageProjects gates project creation and deletion.
func canManageProjects(caller tenancy.Caller) bool {
	switch caller.Role {
	case tenancy.RoleAdmin, tenancy.RoleProjectManager, tenancy.RoleSuperAdmin:
		return true
	}
	return false
}

func (s *projectService) Create(ctx context.Context, caller tenancy.Caller, in CreateProjectInput) (*domain.Project, error) {
	if !canManageProjects(caller) {
		return nil, fmt.Errorf("role %q may not create projects: %w", caller.Role, domain.ErrUnauthorized)
	}
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if scope.All() {
		return nil, fmt.Errorf("project creation needs a concrete organization: %w", domain.ErrUnauthorized)
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:               uuid.New().String(),
		OrganizationID:   scope.OrgID(),
		Name:             in.Name,
		Description:      in.Description,
		Status:           domain.ProjectPlanning,
		Priority:         in.Priority,
		StartDate:        in.StartDate,
		DueDate:          in.DueDate,
		Budget:           in.Budget,
		ProjectManagerID: in.ProjectManagerID,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: string(domain.ProjectPlanning), Timestamp: now, ChangedBy: caller.SubjectID, Reason: "created"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if project.Priority == "" {
		project.Priority = domain.PriorityMedium
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)
		orgScope := tenancy.OrgScope(project.OrganizationID)

		for _, memberID := range in.TeamMemberIDs {
			member, err := txMembers.GetByID(ctx, orgScope, memberID)
			if err != nil {
				return &domain.InvalidReferenceError{Field: "teamMemberIds", ID: memberID, Reason: "member not found in organization"}
			}
			if project.AddTeamMember(member.ID) && member.AddProjectRef(project.ID) {
				member.UpdatedAt = now
				if err := txMembers.Update(ctx, member); err != nil {
					return mapWriteErr(err)
				}
			}
		}
		if in.ProjectManagerID != "" {
			if _, err := txMembers.GetByID(ctx, orgScope, in.ProjectManagerID); err != nil {
				return &domain.InvalidReferenceError{Field: "projectManagerId", ID: in.ProjectManagerID, Reason: "member not found in organization"}
			}
		}
		return txProjects.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, caller tenancy.Caller, id string) (*ProjectDetail, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	orgScope := tenancy.OrgScope(project.OrganizationID)

	tasks, err := s.tasks.ListByProject(ctx, orgScope, project.ID)
	if err != nil {
		return nil, err
	}
	detail := &ProjectDetail{Project: project, TaskCount: len(tasks)}
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			detail.CompletedTasks++
		}
	}
	for _, memberID := range project.TeamMemberIDs {
		if member, err := s.members.GetByID(ctx, orgScope, memberID); err == nil {
			detail.TeamMemberNames = append(detail.TeamMemberNames, member.Name)
		}
	}
	return detail, nil
}

func (s *projectService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.Project, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.projects.List(ctx, scope)
}

func (s *projectService) TransitionStatus(ctx context.Context, caller tenancy.Caller, id string, target domain.ProjectStatus, reason string) (*domain.Project, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := project.TransitionTo(target, caller.SubjectID, reason, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, mapWriteErr(err)
	}
	return project, nil
}

func (s *projectService) RecomputeProgress(ctx context.Context, caller tenancy.Caller, projectID string) (float64, error) {
	scope, err := caller.Scope()
	if err != nil {
		return 0, err
	}
	// Resolve the project through the caller's scope first, then
	// recompute within its own organization.
	project, err := s.projects.GetByID(ctx, scope, projectID)
	if err != nil {
		return 0, err
	}

	var pct float64
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		pct, err = recomputeProjectProgress(ctx, tx, project.OrganizationID, project.ID, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return pct, nil
}

func (s *projectService) AddTeamMember(ctx context.Context, caller tenancy.Caller, projectID, memberID string) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)

		project, err := txProjects.GetByID(ctx, scope, projectID)
		if err != nil {
			return err
		}
		member, err := txMembers.GetByID(ctx, tenancy.OrgScope(project.OrganizationID), memberID)
		if err != nil {
			return &domain.InvalidReferenceError{Field: "teamMemberIds", ID: memberID, Reason: "member not found in organization"}
		}

		if project.AddTeamMember(member.ID) {
			project.UpdatedAt = now
			if err := txProjects.Update(ctx, project); err != nil {
				return mapWriteErr(err)
			}
		}
		if member.AddProjectRef(project.ID) {
			member.UpdatedAt = now
			if err := txMembers.Update(ctx, member); err != nil {
				return mapWriteErr(err)
			}
		}
		return nil
	})
}

func (s *projectService) RemoveTeamMember(ctx context.Context, caller tenancy.Caller, projectID, memberID string) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)

		project, err := txProjects.GetByID(ctx, scope, projectID)
		if err != nil {
			return err
		}
		if project.RemoveTeamMember(memberID) {
			project.UpdatedAt = now
			if err := txProjects.Update(ctx, project); err != nil {
				return mapWriteErr(err)
			}
		}
		// The back-reference may already be gone; that is not an error.
		member, err := txMembers.GetByID(ctx, tenancy.OrgScope(project.OrganizationID), memberID)
		if err != nil {
			return nil
		}
		if member.RemoveProjectRef(project.ID) {
			member.UpdatedAt = now
			if err := txMembers.Update(ctx, member); err != nil {
				return mapWriteErr(err)
			}
		}
		return nil
	})
}

func (s *projectService) AddMilestone(ctx context.Context, caller tenancy.Caller, projectID string, m domain.Milestone) error {
	if m.Name == "" {
		return fmt.Errorf("milestone name is required")
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, scope, projectID)
	if err != nil {
		return err
	}
	project.AddMilestone(m, time.Now().UTC())
	return mapWriteErr(s.projects.Update(ctx, project))
}

func (s *projectService) CompleteMilestone(ctx context.Context, caller tenancy.Caller, projectID, name string) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, scope, projectID)
	if err != nil {
		return err
	}
	if err := project.CompleteMilestone(name, time.Now().UTC()); err != nil {
		return err
	}
	return mapWriteErr(s.projects.Update(ctx, project))
}

func (s *projectService) Delete(ctx context.Context, caller tenancy.Caller, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "delete-project",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    entityFields(domain.KindProject, id, caller.SubjectID),
		})
	}()

	if !canManageProjects(caller) {
		return fmt.Errorf("role %q may not delete projects: %w", caller.Role, domain.ErrUnauthorized)
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)
		txTrash := repository.NewSQLiteTrashRepo(tx)

		project, err := txProjects.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		orgScope := tenancy.OrgScope(project.OrganizationID)

		tasks, err := txTasks.ListByProject(ctx, orgScope, project.ID)
		if err != nil {
			return err
		}
		if len(tasks) > 0 {
			return fmt.Errorf("project %s has %d tasks: %w", project.ID, len(tasks), domain.ErrHasDependents)
		}

		// Detach membership back-references before the row disappears.
		for _, memberID := range project.TeamMemberIDs {
			member, err := txMembers.GetByID(ctx, orgScope, memberID)
			if err != nil {
				continue
			}
			if member.RemoveProjectRef(project.ID) {
				member.UpdatedAt = now
				if err := txMembers.Update(ctx, member); err != nil {
					return mapWriteErr(err)
				}
			}
		}

		doc, err := json.Marshal(project)
		if err != nil {
			return fmt.Errorf("snapshotting project: %w", err)
		}
		entry := &domain.TrashEntry{
			ID:             uuid.New().String(),
			OrganizationID: project.OrganizationID,
			EntityType:     domain.KindProject,
			EntityID:       project.ID,
			Document:       string(doc),
			DeletedBy:      caller.SubjectID,
			DeletedAt:      now,
			ExpiresAt:      now.Add(s.retention),
		}
		if err := txTrash.Create(ctx, entry); err != nil {
			return fmt.Errorf("creating trash entry: %w", err)
		}
		return txProjects.Delete(ctx, scope, project.ID)
	})
}
