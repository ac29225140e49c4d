package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/graph"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

type graphService struct {
	tasks repository.TaskRepo
	uow   db.UnitOfWork
}

// NewGraphService creates the dependency graph manager. All edge
// mutations validate against the organization's full task set before
// writing, so a rejected edge leaves the graph untouched.
func NewGraphService(tasks repository.TaskRepo, uow db.UnitOfWork) GraphService {
	return &graphService{tasks: tasks, uow: uow}
}

func (s *graphService) AddDependency(ctx context.Context, caller tenancy.Caller, taskID, dependsOnID string) error {
	if taskID == dependsOnID {
		return fmt.Errorf("task %s cannot depend on itself: %w", taskID, domain.ErrSelfReference)
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		task, dep, err := loadEdgePair(ctx, txTasks, scope, taskID, dependsOnID, "dependsOn")
		if err != nil {
			return err
		}

		orgTasks, err := txTasks.ListByOrganization(ctx, task.OrganizationID)
		if err != nil {
			return err
		}
		if graph.WouldCreateCycle(dependencyEdges(orgTasks), task.ID, dep.ID) {
			return fmt.Errorf("task %s -> %s: %w", task.ID, dep.ID, domain.ErrCyclicDependency)
		}

		if !task.AddDependsOn(dep.ID) {
			return nil // already present
		}
		task.UpdatedAt = now
		return mapWriteErr(txTasks.Update(ctx, task))
	})
}

func (s *graphService) RemoveDependency(ctx context.Context, caller tenancy.Caller, taskID, dependsOnID string) error {
	return s.removeRef(ctx, caller, taskID, func(t *domain.Task) bool { return t.RemoveDependsOn(dependsOnID) })
}

func (s *graphService) AddBlocker(ctx context.Context, caller tenancy.Caller, taskID, blockerID string) error {
	if taskID == blockerID {
		return fmt.Errorf("task %s cannot block itself: %w", taskID, domain.ErrSelfReference)
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		task, blocker, err := loadEdgePair(ctx, txTasks, scope, taskID, blockerID, "blockedBy")
		if err != nil {
			return err
		}
		if !task.AddBlockedBy(blocker.ID) {
			return nil
		}
		task.UpdatedAt = now
		return mapWriteErr(txTasks.Update(ctx, task))
	})
}

func (s *graphService) RemoveBlocker(ctx context.Context, caller tenancy.Caller, taskID, blockerID string) error {
	return s.removeRef(ctx, caller, taskID, func(t *domain.Task) bool { return t.RemoveBlockedBy(blockerID) })
}

func (s *graphService) SetParent(ctx context.Context, caller tenancy.Caller, taskID, parentID string) error {
	if taskID == parentID {
		return fmt.Errorf("task %s cannot be its own parent: %w", taskID, domain.ErrSelfReference)
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		task, parent, err := loadEdgePair(ctx, txTasks, scope, taskID, parentID, "parentTaskId")
		if err != nil {
			return err
		}

		orgTasks, err := txTasks.ListByOrganization(ctx, task.OrganizationID)
		if err != nil {
			return err
		}
		parents := make(map[string]string, len(orgTasks))
		for _, t := range orgTasks {
			if t.ParentTaskID != "" {
				parents[t.ID] = t.ParentTaskID
			}
		}
		// The new parent's ancestor chain must not pass through the task.
		if graph.AncestorChainContains(parents, parent.ID, task.ID) {
			return fmt.Errorf("task %s -> parent %s: %w", task.ID, parent.ID, domain.ErrCyclicDependency)
		}

		if task.ParentTaskID == parent.ID {
			return nil
		}
		task.ParentTaskID = parent.ID
		task.UpdatedAt = now
		return mapWriteErr(txTasks.Update(ctx, task))
	})
}

func (s *graphService) ClearParent(ctx context.Context, caller tenancy.Caller, taskID string) error {
	return s.removeRef(ctx, caller, taskID, func(t *domain.Task) bool {
		if t.ParentTaskID == "" {
			return false
		}
		t.ParentTaskID = ""
		return true
	})
}

func (s *graphService) Dependents(ctx context.Context, caller tenancy.Caller, taskID string) ([]*domain.Task, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, scope, taskID)
	if err != nil {
		return nil, err
	}
	orgTasks, err := s.tasks.ListByOrganization(ctx, task.OrganizationID)
	if err != nil {
		return nil, err
	}

	var dependents []*domain.Task
	for _, other := range orgTasks {
		for _, dep := range other.DependsOn {
			if dep == task.ID {
				dependents = append(dependents, other)
				break
			}
		}
	}
	return dependents, nil
}

// removeRef applies a reference removal to the task document. Removal
// needs no graph validation; a no-op change skips the write.
func (s *graphService) removeRef(ctx context.Context, caller tenancy.Caller, taskID string, remove func(*domain.Task) bool) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	task, err := s.tasks.GetByID(ctx, scope, taskID)
	if err != nil {
		return err
	}
	if !remove(task) {
		return nil
	}
	task.UpdatedAt = time.Now().UTC()
	return mapWriteErr(s.tasks.Update(ctx, task))
}

// loadEdgePair loads both endpoints of a prospective edge and verifies
// they share an organization. The target resolves within the source
// task's own organization even under the all-organizations scope.
func loadEdgePair(ctx context.Context, tasks repository.TaskRepo, scope tenancy.Scope, taskID, otherID, field string) (*domain.Task, *domain.Task, error) {
	task, err := tasks.GetByID(ctx, scope, taskID)
	if err != nil {
		return nil, nil, err
	}
	other, err := tasks.GetByID(ctx, tenancy.OrgScope(task.OrganizationID), otherID)
	if err != nil {
		return nil, nil, &domain.InvalidReferenceError{Field: field, ID: otherID, Reason: "task not found in organization"}
	}
	return task, other, nil
}

// dependencyEdges builds the adjacency view the cycle check walks.
func dependencyEdges(tasks []*domain.Task) graph.Edges {
	edges := make(graph.Edges, len(tasks))
	for _, t := range tasks {
		if len(t.DependsOn) > 0 {
			edges[t.ID] = t.DependsOn
		}
	}
	return edges
}
