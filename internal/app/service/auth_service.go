package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hackportal/internal/common"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	db         *sql.DB // For transactions
}

func NewAuthService(userRepo repository.UserRepository, inviteRepo repository.InviteRepository, db *sql.DB) *AuthService {
	return &AuthService{userRepo: userRepo, inviteRepo: inviteRepo, db: db}
}

type SignupRequest struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	College    *string `json:"college,omitempty"`
	InviteCode string  `json:"invite_code,omitempty"` // Staff onboarding: grants the code's role
}

type LoginRequest struct {
	LoginField string `json:"login_field"` // Can be username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile"`
	Token   string         `json:"token"`
}

// Signup creates the account and its profile as one atomic unit. The
// default role is Participant; a valid invite code substitutes its role.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, common.Errorf("username, email and password are required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	role := model.RoleParticipant
	if req.InviteCode != "" {
		role, err = s.inviteRepo.RedeemInviteCode(ctx, tx, req.InviteCode)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Errorf("invalid invite code: %w", common.ErrValidation)
			}
			return nil, err
		}
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.CreateUser(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Role:    role,
		College: req.College,
	}
	if err := s.userRepo.CreateProfile(ctx, tx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Profile: profile, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	// Try finding by email first, then by username
	user, err := s.userRepo.FindByEmail(ctx, req.LoginField)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
		}
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	profile, err := s.userRepo.FindProfileByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Profile: profile, Token: token}, nil
}
