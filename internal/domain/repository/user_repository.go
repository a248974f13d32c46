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

type UserRepository interface {
	CreateUser(ctx context.Context, tx *sql.Tx, user *model.User) error
	CreateProfile(ctx context.Context, tx *sql.Tx, profile *model.Profile) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) CreateUser(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, username, email, hashed_password)
	          VALUES ($1, $2, $3, $4)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.HashedPassword)
	} else {
		_, err = r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.HashedPassword)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.CreateUser: %w", err)
	}
	return nil
}

func (r *pgUserRepository) CreateProfile(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	query := `INSERT INTO profiles (id, user_id, role, college, roll_no, branch, year, skills, links)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, p.ID, p.UserID, p.Role, p.College, p.RollNo, p.Branch, p.Year, p.Skills, p.Links)
	} else {
		_, err = r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Role, p.College, p.RollNo, p.Branch, p.Year, p.Skills, p.Links)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // one profile per account
			return fmt.Errorf("profile already exists for account: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.CreateProfile: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findUser(ctx, `email = $1`, email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findUser(ctx, `username = $1`, username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findUser(ctx, `id = $1`, id)
}

func (r *pgUserRepository) findUser(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `SELECT id, username, email, hashed_password, created_at, updated_at
	          FROM users WHERE ` + where
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findUser: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT id, user_id, role, college, roll_no, branch, year, skills, links, created_at, updated_at
	          FROM profiles WHERE user_id = $1`
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Role, &p.College, &p.RollNo, &p.Branch, &p.Year, &p.Skills, &p.Links, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindProfileByUserID: %w", err)
	}
	return p, nil
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, p *model.Profile) error {
	query := `UPDATE profiles SET
	            college = $1, roll_no = $2, branch = $3, year = $4, skills = $5, links = $6,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE user_id = $7`
	res, err := r.db.ExecContext(ctx, query, p.College, p.RollNo, p.Branch, p.Year, p.Skills, p.Links, p.UserID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
