package model

import "time"

// Submission is the single project artifact a team submits. One row per
// team; resubmission updates the row in place.
type Submission struct {
	ID                 string    `json:"id"`
	TeamID             string    `json:"team_id"`
	ProblemStatementID *string   `json:"problem_statement_id,omitempty"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RepoLink           *string   `json:"repo_link,omitempty"`
	DemoLink           *string   `json:"demo_link,omitempty"`
	SubmittedAt        time.Time `json:"submitted_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	TeamName   *string `json:"team_name,omitempty"`   // For display
	EventTitle *string `json:"event_title,omitempty"` // For display
}

// JudgingScore is one judge's independent evaluation. Unique per
// (judge, submission); a second score from the same judge is a conflict.
type JudgingScore struct {
	ID           string    `json:"id"`
	JudgeID      string    `json:"judge_id"`
	SubmissionID string    `json:"submission_id"`
	Score        float64   `json:"score"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`

	JudgeUsername *string `json:"judge_username,omitempty"` // For display
}
