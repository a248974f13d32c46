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

type SubmissionRepository interface {
	// UpsertSubmission inserts the team's submission or, when one already
	// exists, updates it in place. One row per team.
	UpsertSubmission(ctx context.Context, sub *model.Submission) error
	FindByTeamID(ctx context.Context, teamID string) (*model.Submission, error)
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	CreateScore(ctx context.Context, score *model.JudgingScore) error
	ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error)
	ListUnscoredForJudge(ctx context.Context, judgeID string) ([]model.Submission, error)
	CountScoresByJudge(ctx context.Context, judgeID string) (int, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) UpsertSubmission(ctx context.Context, s *model.Submission) error {
	query := `INSERT INTO submissions (id, team_id, problem_statement_id, title, description, repo_link, demo_link)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (team_id) DO UPDATE SET
	            problem_statement_id = EXCLUDED.problem_statement_id,
	            title = EXCLUDED.title,
	            description = EXCLUDED.description,
	            repo_link = EXCLUDED.repo_link,
	            demo_link = EXCLUDED.demo_link,
	            updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.TeamID, s.ProblemStatementID, s.Title, s.Description, s.RepoLink, s.DemoLink)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpsertSubmission: %w", err)
	}
	return nil
}

const submissionColumns = `s.id, s.team_id, s.problem_statement_id, s.title, s.description, s.repo_link, s.demo_link, s.submitted_at, s.updated_at`

func (r *pgSubmissionRepository) FindByTeamID(ctx context.Context, teamID string) (*model.Submission, error) {
	return r.findSubmission(ctx, `s.team_id = $1`, teamID)
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	return r.findSubmission(ctx, `s.id = $1`, id)
}

func (r *pgSubmissionRepository) findSubmission(ctx context.Context, where string, arg any) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + `, t.name, e.title
	          FROM submissions s
	          JOIN teams t ON s.team_id = t.id
	          JOIN events e ON t.event_id = e.id
	          WHERE ` + where
	s := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.TeamID, &s.ProblemStatementID, &s.Title, &s.Description, &s.RepoLink, &s.DemoLink,
		&s.SubmittedAt, &s.UpdatedAt, &s.TeamName, &s.EventTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.findSubmission: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) CreateScore(ctx context.Context, sc *model.JudgingScore) error {
	query := `INSERT INTO judging_scores (id, judge_id, submission_id, score, feedback)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, sc.ID, sc.JudgeID, sc.SubmissionID, sc.Score, sc.Feedback)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// (judge_id, submission_id) unique index: second score from
			// the same judge is rejected, the first row is untouched
			return fmt.Errorf("judge already scored this submission: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.CreateScore: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error) {
	query := `SELECT sc.id, sc.judge_id, sc.submission_id, sc.score, sc.feedback, sc.created_at, u.username
	          FROM judging_scores sc
	          JOIN users u ON sc.judge_id = u.id
	          WHERE sc.submission_id = $1
	          ORDER BY sc.created_at`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListScoresBySubmission: %w", err)
	}
	defer rows.Close()

	var scores []model.JudgingScore
	for rows.Next() {
		var sc model.JudgingScore
		if err := rows.Scan(&sc.ID, &sc.JudgeID, &sc.SubmissionID, &sc.Score, &sc.Feedback, &sc.CreatedAt, &sc.JudgeUsername); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListScoresBySubmission scan: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

func (r *pgSubmissionRepository) ListUnscoredForJudge(ctx context.Context, judgeID string) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + `, t.name, e.title
	          FROM submissions s
	          JOIN teams t ON s.team_id = t.id
	          JOIN events e ON t.event_id = e.id
	          WHERE e.status = $1
	            AND NOT EXISTS (
	              SELECT 1 FROM judging_scores sc
	              WHERE sc.submission_id = s.id AND sc.judge_id = $2
	            )
	          ORDER BY s.submitted_at`
	rows, err := r.db.QueryContext(ctx, query, model.EventPublished, judgeID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListUnscoredForJudge: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(
			&s.ID, &s.TeamID, &s.ProblemStatementID, &s.Title, &s.Description, &s.RepoLink, &s.DemoLink,
			&s.SubmittedAt, &s.UpdatedAt, &s.TeamName, &s.EventTitle,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListUnscoredForJudge scan: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *pgSubmissionRepository) CountScoresByJudge(ctx context.Context, judgeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM judging_scores WHERE judge_id = $1`, judgeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountScoresByJudge: %w", err)
	}
	return count, nil
}
