package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

type recoveryService struct {
	trash    repository.TrashRepo
	uow      db.UnitOfWork
	observer OperationObserver
}

// NewRecoveryService creates the trash recovery service. Recovered
// entities get a new id; references that no longer resolve against the
// live graph are dropped, never resurrected.
func NewRecoveryService(trash repository.TrashRepo, uow db.UnitOfWork, observers ...OperationObserver) RecoveryService {
	return &recoveryService{trash: trash, uow: uow, observer: observerOrNoop(observers)}
}

func (s *recoveryService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.TrashEntry, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.trash.List(ctx, scope)
}

func (s *recoveryService) Recover(ctx context.Context, caller tenancy.Caller, trashID string) (recovered *RecoveredEntity, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{"trash_entry": trashID, "actor": caller.SubjectID}
		if recovered != nil {
			fields["entity_kind"] = string(recovered.Kind)
		}
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "recover-entity",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTrash := repository.NewSQLiteTrashRepo(tx)

		entry, err := txTrash.GetByID(ctx, scope, trashID)
		if err != nil {
			return err
		}
		if entry.Expired(now) {
			return fmt.Errorf("trash entry %s expired at %s: %w", entry.ID, entry.ExpiresAt.Format(time.RFC3339), domain.ErrRecoveryExpired)
		}

		switch entry.EntityType {
		case domain.KindTask:
			recovered, err = recoverTask(ctx, tx, entry, caller.SubjectID, now)
		case domain.KindProject:
			recovered, err = recoverProject(ctx, tx, entry, caller.SubjectID, now)
		default:
			err = fmt.Errorf("trash entry %s has unknown entity type %q", entry.ID, entry.EntityType)
		}
		if err != nil {
			return err
		}
		return txTrash.Delete(ctx, entry.ID)
	})
	if err != nil {
		return nil, err
	}
	return recovered, nil
}

func (s *recoveryService) PurgeExpired(ctx context.Context) (purged int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "purge-trash",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"purged": purged},
		})
	}()
	return s.trash.DeleteExpired(ctx, time.Now().UTC())
}

func recoverTask(ctx context.Context, tx db.DBTX, entry *domain.TrashEntry, actor string, now time.Time) (*RecoveredEntity, error) {
	txTasks := repository.NewSQLiteTaskRepo(tx)
	txProjects := repository.NewSQLiteProjectRepo(tx)
	txMembers := repository.NewSQLiteTeamMemberRepo(tx)

	var task domain.Task
	if err := json.Unmarshal([]byte(entry.Document), &task); err != nil {
		return nil, fmt.Errorf("decoding trashed task: %w", err)
	}
	task.ID = uuid.New().String()
	task.Version = 0
	orgScope := tenancy.OrgScope(task.OrganizationID)

	// The parent project must still be live; a task cannot be restored
	// into a completed, cancelled or deleted project.
	project, err := txProjects.GetByID(ctx, orgScope, task.ProjectID)
	if err != nil {
		return nil, &domain.InvalidReferenceError{Field: "projectId", ID: task.ProjectID, Reason: "parent project no longer exists"}
	}
	if project.Status.IsTerminal() {
		return nil, &domain.InvalidReferenceError{Field: "projectId", ID: task.ProjectID, Reason: fmt.Sprintf("parent project is %s", project.Status)}
	}

	// Drop graph references that no longer resolve.
	orgTasks, err := txTasks.ListByOrganization(ctx, task.OrganizationID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(orgTasks))
	for _, t := range orgTasks {
		existing[t.ID] = true
	}
	task.DependsOn = slices.DeleteFunc(task.DependsOn, func(id string) bool { return !existing[id] })
	task.BlockedBy = slices.DeleteFunc(task.BlockedBy, func(id string) bool { return !existing[id] })
	if task.ParentTaskID != "" && !existing[task.ParentTaskID] {
		task.ParentTaskID = ""
	}

	var assignee *domain.TeamMember
	if task.AssignedTo != "" {
		assignee, err = txMembers.GetByID(ctx, orgScope, task.AssignedTo)
		if err != nil {
			task.AssignedTo = ""
		}
	}

	task.StatusHistory = append(task.StatusHistory, domain.StatusHistoryEntry{
		Status:    string(task.Status),
		Timestamp: now,
		ChangedBy: actor,
		Reason:    "restored from trash",
	})
	task.UpdatedAt = now

	if err := txTasks.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("restoring task: %w", err)
	}

	if assignee != nil {
		if project.AddTeamMember(assignee.ID) {
			project.UpdatedAt = now
			if err := txProjects.Update(ctx, project); err != nil {
				return nil, mapWriteErr(err)
			}
		}
		if assignee.AddProjectRef(project.ID) {
			assignee.UpdatedAt = now
			if err := txMembers.Update(ctx, assignee); err != nil {
				return nil, mapWriteErr(err)
			}
		}
	}

	if _, err := recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now); err != nil {
		return nil, err
	}
	return &RecoveredEntity{Kind: domain.KindTask, Task: &task}, nil
}

func recoverProject(ctx context.Context, tx db.DBTX, entry *domain.TrashEntry, actor string, now time.Time) (*RecoveredEntity, error) {
	txProjects := repository.NewSQLiteProjectRepo(tx)
	txMembers := repository.NewSQLiteTeamMemberRepo(tx)

	var project domain.Project
	if err := json.Unmarshal([]byte(entry.Document), &project); err != nil {
		return nil, fmt.Errorf("decoding trashed project: %w", err)
	}
	project.ID = uuid.New().String()
	project.Version = 0
	orgScope := tenancy.OrgScope(project.OrganizationID)

	// Re-attach membership to members that still exist; drop the rest.
	kept := project.TeamMemberIDs[:0]
	for _, memberID := range project.TeamMemberIDs {
		member, err := txMembers.GetByID(ctx, orgScope, memberID)
		if err != nil {
			continue
		}
		kept = append(kept, memberID)
		if member.AddProjectRef(project.ID) {
			member.UpdatedAt = now
			if err := txMembers.Update(ctx, member); err != nil {
				return nil, mapWriteErr(err)
			}
		}
	}
	project.TeamMemberIDs = kept
	if project.ProjectManagerID != "" {
		if _, err := txMembers.GetByID(ctx, orgScope, project.ProjectManagerID); err != nil {
			project.ProjectManagerID = ""
		}
	}

	project.StatusHistory = append(project.StatusHistory, domain.StatusHistoryEntry{
		Status:    string(project.Status),
		Timestamp: now,
		ChangedBy: actor,
		Reason:    "restored from trash",
	})
	project.UpdatedAt = now

	if err := txProjects.Create(ctx, &project); err != nil {
		return nil, fmt.Errorf("restoring project: %w", err)
	}
	return &RecoveredEntity{Kind: domain.KindProject, Project: &project}, nil
}
