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

type TeamRepository interface {
	CreateTeam(ctx context.Context, tx *sql.Tx, team *model.Team) error
	CreateMember(ctx context.Context, tx *sql.Tx, member *model.TeamMember) error
	FindTeamByID(ctx context.Context, id string) (*model.Team, error)
	// FindTeamByCodeForUpdate resolves a join code (case-insensitive)
	// within an event and locks the team row for the capacity check.
	FindTeamByCodeForUpdate(ctx context.Context, tx *sql.Tx, eventID, joinCode string) (*model.Team, error)
	HasMembership(ctx context.Context, tx *sql.Tx, eventID, userID string) (bool, error)
	CountAcceptedMembers(ctx context.Context, tx *sql.Tx, teamID string) (int, error)
	TeamNameExists(ctx context.Context, tx *sql.Tx, eventID, name string) (bool, error)
	JoinCodeExists(ctx context.Context, tx *sql.Tx, joinCode string) (bool, error)
	FindMembershipByUser(ctx context.Context, eventID, userID string) (*model.TeamMember, error)
	GetMembers(ctx context.Context, teamID string) ([]model.TeamMember, error)
	ListAcceptedUserIDsByEvent(ctx context.Context, eventID string) ([]string, error)
	CountTeamsByEvent(ctx context.Context, eventID string) (int, error)
	CountAcceptedMembersByEvent(ctx context.Context, eventID string) (int, error)
}

type pgTeamRepository struct {
	db *sql.DB
}

func NewPgTeamRepository(db *sql.DB) TeamRepository {
	return &pgTeamRepository{db: db}
}

func (r *pgTeamRepository) CreateTeam(ctx context.Context, tx *sql.Tx, t *model.Team) error {
	query := `INSERT INTO teams (id, event_id, name, join_code, leader_id, max_size)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, query, t.ID, t.EventID, t.Name, t.JoinCode, t.LeaderID, t.MaxSize)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// (event_id, lower(name)) or join_code unique index
			return fmt.Errorf("team name or join code already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTeamRepository.CreateTeam: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) CreateMember(ctx context.Context, tx *sql.Tx, m *model.TeamMember) error {
	query := `INSERT INTO team_members (id, team_id, event_id, user_id, role, status)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, query, m.ID, m.TeamID, m.EventID, m.UserID, m.Role, m.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// (event_id, user_id) unique index is the backstop for the
			// one-membership-per-event invariant
			return fmt.Errorf("account already has a team in this event: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTeamRepository.CreateMember: %w", err)
	}
	return nil
}

const teamColumns = `t.id, t.event_id, t.name, t.join_code, t.leader_id, t.max_size, t.created_at`

func (r *pgTeamRepository) FindTeamByID(ctx context.Context, id string) (*model.Team, error) {
	query := `SELECT ` + teamColumns + `, e.title
	          FROM teams t
	          JOIN events e ON t.event_id = e.id
	          WHERE t.id = $1`
	t := &model.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.EventID, &t.Name, &t.JoinCode, &t.LeaderID, &t.MaxSize, &t.CreatedAt, &t.EventTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.FindTeamByID: %w", err)
	}
	return t, nil
}

func (r *pgTeamRepository) FindTeamByCodeForUpdate(ctx context.Context, tx *sql.Tx, eventID, joinCode string) (*model.Team, error) {
	query := `SELECT ` + teamColumns + `
	          FROM teams t
	          WHERE t.event_id = $1 AND lower(t.join_code) = lower($2)
	          FOR UPDATE`
	t := &model.Team{}
	err := tx.QueryRowContext(ctx, query, eventID, joinCode).Scan(
		&t.ID, &t.EventID, &t.Name, &t.JoinCode, &t.LeaderID, &t.MaxSize, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.FindTeamByCodeForUpdate: %w", err)
	}
	return t, nil
}

func (r *pgTeamRepository) HasMembership(ctx context.Context, tx *sql.Tx, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM team_members WHERE event_id = $1 AND user_id = $2
	          )`
	var exists bool
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, eventID, userID).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("pgTeamRepository.HasMembership: %w", err)
	}
	return exists, nil
}

func (r *pgTeamRepository) CountAcceptedMembers(ctx context.Context, tx *sql.Tx, teamID string) (int, error) {
	query := `SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND status = $2`
	var count int
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, teamID, model.MemberAccepted).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, query, teamID, model.MemberAccepted).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("pgTeamRepository.CountAcceptedMembers: %w", err)
	}
	return count, nil
}

func (r *pgTeamRepository) TeamNameExists(ctx context.Context, tx *sql.Tx, eventID, name string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM teams WHERE event_id = $1 AND lower(name) = lower($2)
	          )`
	var exists bool
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, eventID, name).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, query, eventID, name).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("pgTeamRepository.TeamNameExists: %w", err)
	}
	return exists, nil
}

func (r *pgTeamRepository) JoinCodeExists(ctx context.Context, tx *sql.Tx, joinCode string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM teams WHERE lower(join_code) = lower($1)
	          )`
	var exists bool
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, joinCode).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, query, joinCode).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("pgTeamRepository.JoinCodeExists: %w", err)
	}
	return exists, nil
}

func (r *pgTeamRepository) FindMembershipByUser(ctx context.Context, eventID, userID string) (*model.TeamMember, error) {
	query := `SELECT id, team_id, event_id, user_id, role, status, joined_at
	          FROM team_members WHERE event_id = $1 AND user_id = $2`
	m := &model.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&m.ID, &m.TeamID, &m.EventID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.FindMembershipByUser: %w", err)
	}
	return m, nil
}

func (r *pgTeamRepository) GetMembers(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	query := `SELECT m.id, m.team_id, m.event_id, m.user_id, m.role, m.status, m.joined_at, u.username
	          FROM team_members m
	          JOIN users u ON m.user_id = u.id
	          WHERE m.team_id = $1
	          ORDER BY m.joined_at`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.GetMembers: %w", err)
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.EventID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.Username); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.GetMembers scan: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgTeamRepository) ListAcceptedUserIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	query := `SELECT user_id FROM team_members WHERE event_id = $1 AND status = $2`
	rows, err := r.db.QueryContext(ctx, query, eventID, model.MemberAccepted)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.ListAcceptedUserIDsByEvent: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.ListAcceptedUserIDsByEvent scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgTeamRepository) CountTeamsByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgTeamRepository.CountTeamsByEvent: %w", err)
	}
	return count, nil
}

func (r *pgTeamRepository) CountAcceptedMembersByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE event_id = $1 AND status = $2`,
		eventID, model.MemberAccepted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgTeamRepository.CountAcceptedMembersByEvent: %w", err)
	}
	return count, nil
}
