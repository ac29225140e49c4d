package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// trashColumns is the canonical SELECT column list for trash_entries.
const trashColumns = `id, organization_id, entity_type, entity_id, doc, deleted_by, deleted_at, expires_at`

// SQLiteTrashRepo implements TrashRepo. Trash entries are immutable
// once written; they are only created, read and deleted.
type SQLiteTrashRepo struct {
	db db.DBTX
}

// NewSQLiteTrashRepo creates a new SQLiteTrashRepo.
func NewSQLiteTrashRepo(dbtx db.DBTX) *SQLiteTrashRepo {
	return &SQLiteTrashRepo{db: dbtx}
}

func (r *SQLiteTrashRepo) Create(ctx context.Context, e *domain.TrashEntry) error {
	query := `INSERT INTO trash_entries (` + trashColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.OrganizationID,
		string(e.EntityType),
		e.EntityID,
		e.Document,
		e.DeletedBy,
		formatTime(e.DeletedAt),
		formatTime(e.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("inserting trash entry: %w", err)
	}
	return nil
}

func (r *SQLiteTrashRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.TrashEntry, error) {
	query := `SELECT ` + trashColumns + ` FROM trash_entries WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	row := r.db.QueryRowContext(ctx, query, args...)
	return scanTrashEntry(row.Scan)
}

func (r *SQLiteTrashRepo) List(ctx context.Context, scope tenancy.Scope) ([]*domain.TrashEntry, error) {
	query := `SELECT ` + trashColumns + ` FROM trash_entries WHERE 1=1`
	pred, args := scope.Filter("organization_id")
	query += pred + ` ORDER BY deleted_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trash entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TrashEntry
	for rows.Next() {
		e, err := scanTrashEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trash entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteTrashRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trash_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trash entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting trash entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trash entry: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTrashRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trash_entries WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("purging expired trash entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging expired trash entries: %w", err)
	}
	return int(affected), nil
}

func scanTrashEntry(scan func(dest ...any) error) (*domain.TrashEntry, error) {
	var e domain.TrashEntry
	var entityType, deletedAtStr, expiresAtStr string
	err := scan(&e.ID, &e.OrganizationID, &entityType, &e.EntityID, &e.Document, &e.DeletedBy, &deletedAtStr, &expiresAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trash entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trash entry: %w", err)
	}
	e.EntityType = domain.EntityKind(entityType)
	e.DeletedAt, err = time.Parse(time.RFC3339, deletedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	e.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	return &e, nil
}
