package service

import (
	"context"
	"database/sql"
	"strings"

	"hackportal/internal/common"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"
	"hackportal/internal/platform/config"

	"github.com/google/uuid"
)

type TeamService struct {
	teamRepo  repository.TeamRepository
	eventRepo repository.EventRepository
	db        *sql.DB // For transactions
}

func NewTeamService(teamRepo repository.TeamRepository, eventRepo repository.EventRepository, db *sql.DB) *TeamService {
	return &TeamService{teamRepo: teamRepo, eventRepo: eventRepo, db: db}
}

type CreateTeamRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	MaxSize int    `json:"max_size"`
}

type JoinTeamRequest struct {
	EventID  string `json:"event_id"`
	JoinCode string `json:"join_code"`
}

// CreateTeam runs the duplicate-membership check, team insert and leader
// membership insert as one transaction. The unique indexes on
// (event_id, user_id), (event_id, lower(name)) and join_code make the
// database reject the second writer even if two requests interleave past
// the application-level checks.
func (s *TeamService) CreateTeam(ctx context.Context, callerID string, req CreateTeamRequest) (*model.Team, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.EventID == "" || req.Name == "" {
		return nil, common.Errorf("event and team name are required: %w", common.ErrValidation)
	}
	maxSize := req.MaxSize
	if maxSize <= 0 {
		maxSize = config.AppConfig.DefaultTeamSize
	}

	event, err := s.eventRepo.FindEventByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPublished {
		return nil, common.Errorf("event is not open for team formation: %w", common.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	already, err := s.teamRepo.HasMembership(ctx, tx, event.ID, callerID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, common.Errorf("account already has a team in this event: %w", common.ErrConflict)
	}

	taken, err := s.teamRepo.TeamNameExists(ctx, tx, event.ID, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.Errorf("team name already used in this event: %w", common.ErrValidation)
	}

	joinCode, err := s.generateJoinCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:       uuid.NewString(),
		EventID:  event.ID,
		Name:     req.Name,
		JoinCode: joinCode,
		LeaderID: callerID,
		MaxSize:  maxSize,
	}
	if err := s.teamRepo.CreateTeam(ctx, tx, team); err != nil {
		return nil, err
	}

	leader := &model.TeamMember{
		ID:      uuid.NewString(),
		TeamID:  team.ID,
		EventID: event.ID,
		UserID:  callerID,
		Role:    model.TeamRoleLeader,
		Status:  model.MemberAccepted,
	}
	if err := s.teamRepo.CreateMember(ctx, tx, leader); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	team.Members = []model.TeamMember{*leader}
	return team, nil
}

// generateJoinCode retries on the (unlikely) collision with an existing
// team code.
func (s *TeamService) generateJoinCode(ctx context.Context, tx *sql.Tx) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := security.GenerateCode(config.AppConfig.JoinCodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.teamRepo.JoinCodeExists(ctx, tx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", common.Errorf("could not generate a unique join code: %w", common.ErrInternalServer)
}

// JoinTeam resolves the code, locks the team row, and checks membership
// and capacity before inserting — all inside one transaction, so two
// concurrent joins cannot both pass the capacity check.
func (s *TeamService) JoinTeam(ctx context.Context, callerID string, req JoinTeamRequest) (*model.Team, error) {
	if req.EventID == "" || strings.TrimSpace(req.JoinCode) == "" {
		return nil, common.Errorf("event and join code are required: %w", common.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	team, err := s.teamRepo.FindTeamByCodeForUpdate(ctx, tx, req.EventID, strings.TrimSpace(req.JoinCode))
	if err != nil {
		return nil, err // NotFound for a bad code
	}

	already, err := s.teamRepo.HasMembership(ctx, tx, team.EventID, callerID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, common.Errorf("account already has a team in this event: %w", common.ErrConflict)
	}

	count, err := s.teamRepo.CountAcceptedMembers(ctx, tx, team.ID)
	if err != nil {
		return nil, err
	}
	if count >= team.MaxSize {
		return nil, common.Errorf("team %q is already full: %w", team.Name, common.ErrCapacityExceeded)
	}

	member := &model.TeamMember{
		ID:      uuid.NewString(),
		TeamID:  team.ID,
		EventID: team.EventID,
		UserID:  callerID,
		Role:    model.TeamRoleMember,
		Status:  model.MemberAccepted,
	}
	if err := s.teamRepo.CreateMember(ctx, tx, member); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return team, nil
}

// MyTeam returns the caller's team in the given event, members included.
func (s *TeamService) MyTeam(ctx context.Context, callerID, eventID string) (*model.Team, error) {
	membership, err := s.teamRepo.FindMembershipByUser(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.FindTeamByID(ctx, membership.TeamID)
	if err != nil {
		return nil, err
	}
	members, err := s.teamRepo.GetMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}
