package service

import (
	"context"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"

	"github.com/google/uuid"
)

type JudgingService struct {
	submissionRepo repository.SubmissionRepository
}

func NewJudgingService(submissionRepo repository.SubmissionRepository) *JudgingService {
	return &JudgingService{submissionRepo: submissionRepo}
}

type ScoreRequest struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// ScoreSubmission records one judge's evaluation. The unique index on
// (judge_id, submission_id) rejects a second score from the same judge
// without touching the first.
func (s *JudgingService) ScoreSubmission(ctx context.Context, judgeID, submissionID string, req ScoreRequest) (*model.JudgingScore, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, common.Errorf("score must be between 0 and 100: %w", common.ErrValidation)
	}

	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return nil, err
	}

	score := &model.JudgingScore{
		ID:           uuid.NewString(),
		JudgeID:      judgeID,
		SubmissionID: submissionID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}
	if err := s.submissionRepo.CreateScore(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// JudgingQueue lists submissions in published events the judge has not
// yet scored.
func (s *JudgingService) JudgingQueue(ctx context.Context, judgeID string) ([]model.Submission, error) {
	return s.submissionRepo.ListUnscoredForJudge(ctx, judgeID)
}

type JudgeDashboard struct {
	Scored  int                `json:"scored"`
	Pending []model.Submission `json:"pending"`
}

func (s *JudgingService) Dashboard(ctx context.Context, judgeID string) (*JudgeDashboard, error) {
	scored, err := s.submissionRepo.CountScoresByJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	pending, err := s.submissionRepo.ListUnscoredForJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	return &JudgeDashboard{Scored: scored, Pending: pending}, nil
}

// ScoresForSubmission is the organizer-facing view of all per-judge
// scores. Aggregation and ranking stay outside the core.
func (s *JudgingService) ScoresForSubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error) {
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListScoresBySubmission(ctx, submissionID)
}
