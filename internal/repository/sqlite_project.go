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

// SQLiteProjectRepo implements ProjectRepo over the projects document
// table. Constructed over db.DBTX so the same code runs standalone or
// inside a unit of work.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	doc, err := marshalDoc(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (id, organization_id, status, doc, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.OrganizationID,
		string(p.Status),
		doc,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	p.Version = 1
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Project, error) {
	query := `SELECT doc, version FROM projects WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	row := r.db.QueryRowContext(ctx, query, args...)
	var doc string
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return decodeProject(doc, version)
}

func (r *SQLiteProjectRepo) List(ctx context.Context, scope tenancy.Scope) ([]*domain.Project, error) {
	query := `SELECT doc, version FROM projects WHERE 1=1`
	pred, args := scope.Filter("organization_id")
	query += pred + ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p, err := decodeProject(doc, version)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Update writes the full document back, keeping the extracted columns
// in sync, guarded by the version the document was read at.
func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	doc, err := marshalDoc(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET status = ?, doc = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		doc,
		formatTime(p.UpdatedAt),
		p.ID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if affected == 0 {
		return r.staleOrMissing(ctx, p.ID)
	}
	p.Version++
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	return nil
}

// staleOrMissing distinguishes a version conflict from a vanished row
// after a zero-row optimistic update.
func (r *SQLiteProjectRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking project existence: %w", err)
	}
	return fmt.Errorf("project %s: %w", id, ErrVersionConflict)
}

func decodeProject(doc string, version int64) (*domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decoding project document: %w", err)
	}
	p.Version = version
	return &p, nil
}
