package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/importer"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

type importService struct {
	uow      db.UnitOfWork
	observer OperationObserver
}

// NewImportService creates the workspace import service. The whole
// import runs in one unit of work; a failing write rolls back every
// entity of the file.
func NewImportService(uow db.UnitOfWork, observers ...OperationObserver) ImportService {
	return &importService{uow: uow, observer: observerOrNoop(observers)}
}

func (s *importService) ImportWorkspace(ctx context.Context, caller tenancy.Caller, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadWorkspaceSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportWorkspaceFromSchema(ctx, caller, schema)
}

func (s *importService) ImportWorkspaceFromSchema(ctx context.Context, caller tenancy.Caller, schema *importer.WorkspaceSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"organization": schema.OrganizationID}
	defer func() {
		s.observer.ObserveOperation(ctx, OperationEvent{
			Name:      "import-workspace",
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
	if !scope.Covers(schema.OrganizationID) {
		return nil, fmt.Errorf("caller %q may not import into organization %q: %w", caller.SubjectID, schema.OrganizationID, domain.ErrUnauthorized)
	}

	if errs := importer.ValidateWorkspaceSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	ws := importer.Convert(schema, caller.SubjectID)

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txMembers := repository.NewSQLiteTeamMemberRepo(tx)

		for _, member := range ws.Members {
			if err := txMembers.Create(ctx, member); err != nil {
				return fmt.Errorf("creating member %q: %w", member.Name, err)
			}
		}
		for _, project := range ws.Projects {
			if err := txProjects.Create(ctx, project); err != nil {
				return fmt.Errorf("creating project %q: %w", project.Name, err)
			}
		}
		for _, task := range ws.Tasks {
			if err := txTasks.Create(ctx, task); err != nil {
				return fmt.Errorf("creating task %q: %w", task.Name, err)
			}
		}
		// Imported tasks may carry progress; derive each project figure
		// before the import commits.
		for _, project := range ws.Projects {
			if _, err := recomputeProjectProgress(ctx, tx, ws.OrganizationID, project.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{
		OrganizationID:  ws.OrganizationID,
		ProjectCount:    len(ws.Projects),
		TaskCount:       len(ws.Tasks),
		MemberCount:     len(ws.Members),
		DependencyCount: ws.DependencyCount,
	}
	fields["projects"] = result.ProjectCount
	fields["tasks"] = result.TaskCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
