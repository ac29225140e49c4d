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

type taskService struct {
	tasks     repository.TaskRepo
	projects  repository.ProjectRepo
	members   repository.TeamMemberRepo
	uow       db.UnitOfWork
	retention time.Duration
	observer  OperationObserver
}

// NewTaskService creates the task lifecycle service. retention is the
// recovery window granted to soft-deleted tasks.
func NewTaskService(
	tasks repository.TaskRepo,
	projects repository.ProjectRepo,
	members repository.TeamMemberRepo,
	uow db.UnitOfWork,
	retention time.Duration,
	observers ...OperationObserver,
) TaskService {
	return &taskService{
		tasks:     tasks,
		projects:  projects,
		members:   members,
		uow:       uow,
		retention: retention,
		observer:  observerOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, caller tenancy.Caller, in CreateTaskInput) (task *domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": in.ProjectID, "name": in.Name}
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "create-task",
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
	if in.Name == "" {
		return nil, fmt.Errorf("task name is required")
	}

	now := time.Now().UTC()
	task = &domain.Task{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Description:    in.Description,
		Status:         domain.TaskNotStarted,
		Priority:       in.Priority,
		Complexity:     in.Complexity,
		EstimatedHours: in.EstimatedHours,
		StartDate:      in.StartDate,
		DueDate:        in.DueDate,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: string(domain.TaskNotStarted), Timestamp: now, ChangedBy: caller.SubjectID, Reason: "created"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Complexity == "" {
		task.Complexity = domain.ComplexityModerate
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)

		project, err := txProjects.GetByID(ctx, scope, in.ProjectID)
		if err != nil {
			return &domain.InvalidReferenceError{Field: "projectId", ID: in.ProjectID, Reason: "project not found in organization"}
		}
		if project.Status.IsTerminal() {
			return &domain.InvalidReferenceError{Field: "projectId", ID: in.ProjectID, Reason: fmt.Sprintf("project is %s", project.Status)}
		}
		task.OrganizationID = project.OrganizationID
		task.ProjectID = project.ID
		orgScope := tenancy.OrgScope(project.OrganizationID)

		for _, depID := range in.DependsOn {
			if _, err := txTasks.GetByID(ctx, orgScope, depID); err != nil {
				return &domain.InvalidReferenceError{Field: "dependsOn", ID: depID, Reason: "task not found in organization"}
			}
			task.AddDependsOn(depID)
		}
		if in.ParentTaskID != "" {
			if _, err := txTasks.GetByID(ctx, orgScope, in.ParentTaskID); err != nil {
				return &domain.InvalidReferenceError{Field: "parentTaskId", ID: in.ParentTaskID, Reason: "task not found in organization"}
			}
			task.ParentTaskID = in.ParentTaskID
		}

		var assignee *domain.TeamMember
		if in.AssignedTo != "" {
			assignee, err = txMembers.GetByID(ctx, orgScope, in.AssignedTo)
			if err != nil {
				return &domain.InvalidReferenceError{Field: "assignedTo", ID: in.AssignedTo, Reason: "member not found in organization"}
			}
			task.AssignedTo = assignee.ID
		}

		if err := txTasks.Create(ctx, task); err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		// Assignment implies project membership on both sides.
		if assignee != nil {
			if project.AddTeamMember(assignee.ID) {
				if err := txProjects.Update(ctx, project); err != nil {
					return mapWriteErr(err)
				}
			}
			if assignee.AddProjectRef(project.ID) {
				assignee.UpdatedAt = now
				if err := txMembers.Update(ctx, assignee); err != nil {
					return mapWriteErr(err)
				}
			}
		}

		_, err = recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["task"] = task.ID
	return task, nil
}

func (s *taskService) Get(ctx context.Context, caller tenancy.Caller, id string) (*TaskDetail, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	detail := &TaskDetail{Task: task}
	orgScope := tenancy.OrgScope(task.OrganizationID)

	siblings, err := s.tasks.ListByOrganization(ctx, task.OrganizationID)
	if err != nil {
		return nil, err
	}
	for _, other := range siblings {
		if other.ParentTaskID == task.ID {
			detail.SubtaskIDs = append(detail.SubtaskIDs, other.ID)
		}
		for _, dep := range other.DependsOn {
			if dep == task.ID {
				detail.DependentIDs = append(detail.DependentIDs, other.ID)
				break
			}
		}
	}

	if project, err := s.projects.GetByID(ctx, orgScope, task.ProjectID); err == nil {
		detail.ProjectName = project.Name
	}
	if task.AssignedTo != "" {
		if member, err := s.members.GetByID(ctx, orgScope, task.AssignedTo); err == nil {
			detail.AssigneeName = member.Name
		}
	}
	return detail, nil
}

func (s *taskService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, scope)
}

func (s *taskService) ListByProject(ctx context.Context, caller tenancy.Caller, projectID string) ([]*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, scope, projectID)
}

func (s *taskService) Update(ctx context.Context, caller tenancy.Caller, id string, in UpdateTaskInput) (*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		task.Name = *in.Name
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Complexity != nil {
		task.Complexity = *in.Complexity
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return nil, &domain.OutOfRangeError{Field: "estimatedHours", Value: *in.EstimatedHours, Min: 0, Max: maxHours}
		}
		task.EstimatedHours = *in.EstimatedHours
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, mapWriteErr(err)
	}
	return task, nil
}

func (s *taskService) TransitionStatus(ctx context.Context, caller tenancy.Caller, id string, target domain.TaskStatus, reason string) (*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}

	var task *domain.Task
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		task, err = txTasks.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := task.TransitionTo(target, caller.SubjectID, reason, now); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return mapWriteErr(err)
		}
		_, err = recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Reopen(ctx context.Context, caller tenancy.Caller, id, reason string) (task *domain.Task, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "reopen-task",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    entityFields(domain.KindTask, id, caller.SubjectID),
		})
	}()

	if !caller.CanReopen() {
		return nil, fmt.Errorf("role %q may not reopen tasks: %w", caller.Role, domain.ErrUnauthorized)
	}
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		task, err = txTasks.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := task.Reopen(caller.SubjectID, reason, now); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return mapWriteErr(err)
		}
		_, err = recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateProgress(ctx context.Context, caller tenancy.Caller, id string, in ProgressUpdate) (*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}

	directMode := in.CompletionPercentage != nil && in.TimeSpent == nil && in.RemainingWork == nil
	timeMode := in.CompletionPercentage == nil && in.TimeSpent != nil && in.RemainingWork != nil
	if !directMode && !timeMode {
		return nil, fmt.Errorf("progress update takes either completionPercentage or both timeSpent and remainingWork")
	}

	var task *domain.Task
	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		task, err = txTasks.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if directMode {
			err = task.ApplyProgress(*in.CompletionPercentage, caller.SubjectID, now)
		} else {
			err = task.ApplyTimeProgress(*in.TimeSpent, *in.RemainingWork, caller.SubjectID, now)
		}
		if err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return mapWriteErr(err)
		}
		_, err = recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Assign(ctx context.Context, caller tenancy.Caller, taskID, memberID string) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)

		task, err := txTasks.GetByID(ctx, scope, taskID)
		if err != nil {
			return err
		}
		orgScope := tenancy.OrgScope(task.OrganizationID)

		member, err := txMembers.GetByID(ctx, orgScope, memberID)
		if err != nil {
			return &domain.InvalidReferenceError{Field: "assignedTo", ID: memberID, Reason: "member not found in organization"}
		}

		task.AssignedTo = member.ID
		task.UpdatedAt = now
		if err := txTasks.Update(ctx, task); err != nil {
			return mapWriteErr(err)
		}

		project, err := txProjects.GetByID(ctx, orgScope, task.ProjectID)
		if err != nil {
			return fmt.Errorf("loading project: %w", err)
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

func (s *taskService) Unassign(ctx context.Context, caller tenancy.Caller, taskID string) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	task, err := s.tasks.GetByID(ctx, scope, taskID)
	if err != nil {
		return err
	}
	if task.AssignedTo == "" {
		return nil
	}
	task.AssignedTo = ""
	task.UpdatedAt = time.Now().UTC()
	return mapWriteErr(s.tasks.Update(ctx, task))
}

func (s *taskService) Comment(ctx context.Context, caller tenancy.Caller, taskID, body string) error {
	if body == "" {
		return fmt.Errorf("comment body is required")
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	task, err := s.tasks.GetByID(ctx, scope, taskID)
	if err != nil {
		return err
	}
	task.AppendComment(domain.Comment{
		ID:        uuid.New().String(),
		AuthorID:  caller.SubjectID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	return mapWriteErr(s.tasks.Update(ctx, task))
}

func (s *taskService) Delete(ctx context.Context, caller tenancy.Caller, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "delete-task",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    entityFields(domain.KindTask, id, caller.SubjectID),
		})
	}()

	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTrash := repository.NewSQLiteTrashRepo(tx)

		task, err := txTasks.GetByID(ctx, scope, id)
		if err != nil {
			return err
		}
		orgTasks, err := txTasks.ListByOrganization(ctx, task.OrganizationID)
		if err != nil {
			return err
		}
		if err := checkDeletionGuards(orgTasks, task.ID); err != nil {
			return fmt.Errorf("task %s: %w", task.ID, err)
		}

		doc, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("snapshotting task: %w", err)
		}
		entry := &domain.TrashEntry{
			ID:             uuid.New().String(),
			OrganizationID: task.OrganizationID,
			EntityType:     domain.KindTask,
			EntityID:       task.ID,
			Document:       string(doc),
			DeletedBy:      caller.SubjectID,
			DeletedAt:      now,
			ExpiresAt:      now.Add(s.retention),
		}
		if err := txTrash.Create(ctx, entry); err != nil {
			return fmt.Errorf("creating trash entry: %w", err)
		}
		if err := txTasks.Delete(ctx, scope, task.ID); err != nil {
			return err
		}
		_, err = recomputeProjectProgress(ctx, tx, task.OrganizationID, task.ProjectID, now)
		return err
	})
}
