package service

import (
	"context"
	"strings"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	teamRepo       repository.TeamRepository
}

func NewSubmissionService(submissionRepo repository.SubmissionRepository, teamRepo repository.TeamRepository) *SubmissionService {
	return &SubmissionService{submissionRepo: submissionRepo, teamRepo: teamRepo}
}

type SubmitRequest struct {
	ProblemStatementID *string `json:"problem_statement_id,omitempty"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	RepoLink           *string `json:"repo_link,omitempty"`
	DemoLink           *string `json:"demo_link,omitempty"`
}

// Submit records the team's project. Only the team leader may submit, and
// a resubmission replaces the previous content rather than adding a row.
func (s *SubmissionService) Submit(ctx context.Context, callerID, teamID string, req SubmitRequest) (*model.Submission, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.Errorf("submission title is required: %w", common.ErrValidation)
	}

	team, err := s.teamRepo.FindTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != callerID {
		return nil, common.Errorf("only the team leader may submit: %w", common.ErrForbidden)
	}

	sub := &model.Submission{
		ID:                 uuid.NewString(),
		TeamID:             team.ID,
		ProblemStatementID: req.ProblemStatementID,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		RepoLink:           req.RepoLink,
		DemoLink:           req.DemoLink,
	}
	if err := s.submissionRepo.UpsertSubmission(ctx, sub); err != nil {
		return nil, err
	}

	// Re-read so updates return the surviving row, not the discarded id.
	stored, err := s.submissionRepo.FindByTeamID(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetTeamSubmission is visible to members of the team.
func (s *SubmissionService) GetTeamSubmission(ctx context.Context, callerID, teamID string) (*model.Submission, error) {
	team, err := s.teamRepo.FindTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.teamRepo.GetMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	isMember := false
	for _, m := range members {
		if m.UserID == callerID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, common.ErrForbidden
	}
	return s.submissionRepo.FindByTeamID(ctx, team.ID)
}
