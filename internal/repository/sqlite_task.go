package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// SQLiteTaskRepo implements TaskRepo over the tasks document table.
// Dependency sets, status history and comments live inside the JSON
// document; organization, project, assignee and status are extracted
// into columns for filtering.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	doc, err := marshalDoc(t)
	if err != nil {
		return err
	}
	query := `INSERT INTO tasks (id, organization_id, project_id, assigned_to, status, doc, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.OrganizationID,
		t.ProjectID,
		nullableStr(t.AssignedTo),
		string(t.Status),
		doc,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	t.Version = 1
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Task, error) {
	query := `SELECT doc, version FROM tasks WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	row := r.db.QueryRowContext(ctx, query, args...)
	var doc string
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return decodeTask(doc, version)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, scope tenancy.Scope) ([]*domain.Task, error) {
	query := `SELECT doc, version FROM tasks WHERE 1=1`
	pred, args := scope.Filter("organization_id")
	return r.queryTasks(ctx, query+pred+` ORDER BY created_at`, args...)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, scope tenancy.Scope, projectID string) ([]*domain.Task, error) {
	query := `SELECT doc, version FROM tasks WHERE project_id = ?`
	args := []any{projectID}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)
	return r.queryTasks(ctx, query+` ORDER BY created_at`, args...)
}

func (r *SQLiteTaskRepo) ListByAssignee(ctx context.Context, scope tenancy.Scope, memberID string) ([]*domain.Task, error) {
	query := `SELECT doc, version FROM tasks WHERE assigned_to = ?`
	args := []any{memberID}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)
	return r.queryTasks(ctx, query+` ORDER BY created_at`, args...)
}

func (r *SQLiteTaskRepo) ListByOrganization(ctx context.Context, orgID string) ([]*domain.Task, error) {
	query := `SELECT doc, version FROM tasks WHERE organization_id = ? ORDER BY created_at`
	return r.queryTasks(ctx, query, orgID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	doc, err := marshalDoc(t)
	if err != nil {
		return err
	}
	query := `UPDATE tasks SET project_id = ?, assigned_to = ?, status = ?, doc = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		nullableStr(t.AssignedTo),
		string(t.Status),
		doc,
		formatTime(t.UpdatedAt),
		t.ID,
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if affected == 0 {
		return r.staleOrMissing(ctx, t.ID)
	}
	t.Version++
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		t, err := decodeTask(doc, version)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking task existence: %w", err)
	}
	return fmt.Errorf("task %s: %w", id, ErrVersionConflict)
}

func decodeTask(doc string, version int64) (*domain.Task, error) {
	var t domain.Task
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return nil, fmt.Errorf("decoding task document: %w", err)
	}
	t.Version = version
	return &t, nil
}
