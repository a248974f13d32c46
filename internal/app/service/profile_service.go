package service

import (
	"context"
	"fmt"

	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"
)

type ProfileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	College *string `json:"college,omitempty"`
	RollNo  *string `json:"roll_no,omitempty"`
	Branch  *string `json:"branch,omitempty"`
	Year    *int    `json:"year,omitempty"`
	Skills  *string `json:"skills,omitempty"`
	Links   *string `json:"links,omitempty"`
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile edits the caller's own participant metadata. The role tag
// is never writable through this path.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.College != nil {
		profile.College = req.College
	}
	if req.RollNo != nil {
		profile.RollNo = req.RollNo
	}
	if req.Branch != nil {
		profile.Branch = req.Branch
	}
	if req.Year != nil {
		profile.Year = req.Year
	}
	if req.Skills != nil {
		profile.Skills = req.Skills
	}
	if req.Links != nil {
		profile.Links = req.Links
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
