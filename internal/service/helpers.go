package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// maxHours bounds hour-valued inputs (estimates, weekly capacity).
const maxHours = 10000

// mapWriteErr lifts storage-level write failures into the engine's
// error taxonomy. A stale optimistic version becomes
// ErrConcurrentModification, which callers may retry; everything else
// passes through unchanged.
func mapWriteErr(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return fmt.Errorf("%v: %w", err, domain.ErrConcurrentModification)
	}
	return err
}

// recomputeProjectProgress re-reads the project's current task set and
// stores the mean completion percentage of its non-cancelled tasks,
// zero when none are eligible. It runs inside the caller's transaction
// so the triggering task write and the derived figure commit together.
func recomputeProjectProgress(ctx context.Context, tx db.DBTX, orgID, projectID string, now time.Time) (float64, error) {
	scope := tenancy.OrgScope(orgID)
	txProjects := repository.NewSQLiteProjectRepo(tx)
	txTasks := repository.NewSQLiteTaskRepo(tx)

	project, err := txProjects.GetByID(ctx, scope, projectID)
	if err != nil {
		return 0, fmt.Errorf("loading project for recompute: %w", err)
	}
	tasks, err := txTasks.ListByProject(ctx, scope, projectID)
	if err != nil {
		return 0, fmt.Errorf("loading tasks for recompute: %w", err)
	}

	var sum float64
	var eligible int
	for _, t := range tasks {
		if t.Status == domain.TaskCancelled {
			continue
		}
		sum += t.Progress.CompletionPercentage
		eligible++
	}
	var pct float64
	if eligible > 0 {
		pct = sum / float64(eligible)
	}

	project.SetProgress(pct, now)
	if err := txProjects.Update(ctx, project); err != nil {
		return 0, mapWriteErr(err)
	}
	return pct, nil
}

// checkDeletionGuards scans the organization's live tasks for
// references to the entity about to be deleted. Dependency and blocker
// references surface ErrHasDependents, parent references
// ErrHasSubtasks.
func checkDeletionGuards(tasks []*domain.Task, id string) error {
	for _, t := range tasks {
		if t.ID == id {
			continue
		}
		for _, dep := range t.DependsOn {
			if dep == id {
				return fmt.Errorf("task %s depends on it: %w", t.ID, domain.ErrHasDependents)
			}
		}
		for _, blocker := range t.BlockedBy {
			if blocker == id {
				return fmt.Errorf("task %s is blocked by it: %w", t.ID, domain.ErrHasDependents)
			}
		}
		if t.ParentTaskID == id {
			return fmt.Errorf("task %s is a subtask of it: %w", t.ID, domain.ErrHasSubtasks)
		}
	}
	return nil
}
