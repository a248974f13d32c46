package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type InviteRepository interface {
	CreateInviteCode(ctx context.Context, code *model.InviteCode) error
	// RedeemInviteCode atomically consumes one use and returns the granted
	// role. ErrNotFound for an unknown code, ErrConflict for an exhausted
	// one.
	RedeemInviteCode(ctx context.Context, tx *sql.Tx, code string) (string, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.InviteCode, error)
}

type pgInviteRepository struct {
	db *sql.DB
}

func NewPgInviteRepository(db *sql.DB) InviteRepository {
	return &pgInviteRepository{db: db}
}

func (r *pgInviteRepository) CreateInviteCode(ctx context.Context, c *model.InviteCode) error {
	query := `INSERT INTO invite_codes (id, code, role, max_uses, used_count, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Code, c.Role, c.MaxUses, c.UsedCount, c.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("invite code already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgInviteRepository.CreateInviteCode: %w", err)
	}
	return nil
}

func (r *pgInviteRepository) RedeemInviteCode(ctx context.Context, tx *sql.Tx, code string) (string, error) {
	// Single guarded UPDATE: concurrent redeemers race on the used_count
	// predicate, so the cap can never be overshot.
	query := `UPDATE invite_codes
	          SET used_count = used_count + 1
	          WHERE lower(code) = lower($1) AND used_count < max_uses
	          RETURNING role`
	var role string
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, code).Scan(&role)
	} else {
		err = r.db.QueryRowContext(ctx, query, code).Scan(&role)
	}
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("pgInviteRepository.RedeemInviteCode: %w", err)
	}

	// Distinguish unknown code from exhausted code.
	existsQuery := `SELECT EXISTS (SELECT 1 FROM invite_codes WHERE lower(code) = lower($1))`
	var exists bool
	if tx != nil {
		err = tx.QueryRowContext(ctx, existsQuery, code).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, existsQuery, code).Scan(&exists)
	}
	if err != nil {
		return "", fmt.Errorf("pgInviteRepository.RedeemInviteCode exists: %w", err)
	}
	if !exists {
		return "", common.ErrNotFound
	}
	return "", fmt.Errorf("invite code has no remaining uses: %w", common.ErrConflict)
}

func (r *pgInviteRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.InviteCode, error) {
	query := `SELECT id, code, role, max_uses, used_count, created_by, created_at
	          FROM invite_codes WHERE created_by = $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("pgInviteRepository.ListByCreator: %w", err)
	}
	defer rows.Close()

	var out []model.InviteCode
	for rows.Next() {
		var c model.InviteCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Role, &c.MaxUses, &c.UsedCount, &c.CreatedByID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgInviteRepository.ListByCreator scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
