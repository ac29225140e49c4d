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

// SQLiteTeamMemberRepo implements TeamMemberRepo over the team_members
// document table.
type SQLiteTeamMemberRepo struct {
	db db.DBTX
}

// NewSQLiteTeamMemberRepo creates a new SQLiteTeamMemberRepo.
func NewSQLiteTeamMemberRepo(dbtx db.DBTX) *SQLiteTeamMemberRepo {
	return &SQLiteTeamMemberRepo{db: dbtx}
}

func (r *SQLiteTeamMemberRepo) Create(ctx context.Context, m *domain.TeamMember) error {
	doc, err := marshalDoc(m)
	if err != nil {
		return err
	}
	query := `INSERT INTO team_members (id, organization_id, status, doc, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID,
		m.OrganizationID,
		string(m.Status),
		doc,
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting team member: %w", err)
	}
	m.Version = 1
	return nil
}

func (r *SQLiteTeamMemberRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.TeamMember, error) {
	query := `SELECT doc, version FROM team_members WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	row := r.db.QueryRowContext(ctx, query, args...)
	var doc string
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning team member: %w", err)
	}
	return decodeMember(doc, version)
}

func (r *SQLiteTeamMemberRepo) List(ctx context.Context, scope tenancy.Scope) ([]*domain.TeamMember, error) {
	query := `SELECT doc, version FROM team_members WHERE 1=1`
	pred, args := scope.Filter("organization_id")
	query += pred + ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var members []*domain.TeamMember
	for rows.Next() {
		var doc string
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("scanning team member row: %w", err)
		}
		m, err := decodeMember(doc, version)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team members: %w", err)
	}
	return members, nil
}

func (r *SQLiteTeamMemberRepo) Update(ctx context.Context, m *domain.TeamMember) error {
	doc, err := marshalDoc(m)
	if err != nil {
		return err
	}
	query := `UPDATE team_members SET status = ?, doc = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(m.Status),
		doc,
		formatTime(m.UpdatedAt),
		m.ID,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("updating team member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating team member: %w", err)
	}
	if affected == 0 {
		return r.staleOrMissing(ctx, m.ID)
	}
	m.Version++
	return nil
}

func (r *SQLiteTeamMemberRepo) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	query := `DELETE FROM team_members WHERE id = ?`
	args := []any{id}
	pred, predArgs := scope.Filter("organization_id")
	query += pred
	args = append(args, predArgs...)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting team member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting team member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team member: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTeamMemberRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM team_members WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("team member: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking team member existence: %w", err)
	}
	return fmt.Errorf("team member %s: %w", id, ErrVersionConflict)
}

func decodeMember(doc string, version int64) (*domain.TeamMember, error) {
	var m domain.TeamMember
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("decoding team member document: %w", err)
	}
	m.Version = version
	return &m, nil
}
