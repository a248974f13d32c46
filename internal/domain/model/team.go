package model

import "time"

type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberAccepted MemberStatus = "accepted"
)

const (
	TeamRoleLeader = "Leader"
	TeamRoleMember = "Member"
)

type Team struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	LeaderID  string    `json:"leader_id"`
	MaxSize   int       `json:"max_size"`
	CreatedAt time.Time `json:"created_at"`

	Members    []TeamMember `json:"members,omitempty"`
	EventTitle *string      `json:"event_title,omitempty"` // For display
}

// TeamMember is the (team, account) join row. The event id is
// denormalized onto the row so the one-membership-per-event rule can be
// a plain unique index on (event_id, user_id).
type TeamMember struct {
	ID       string       `json:"id"`
	TeamID   string       `json:"team_id"`
	EventID  string       `json:"event_id"`
	UserID   string       `json:"user_id"`
	Role     string       `json:"role"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`

	Username *string `json:"username,omitempty"` // For display
}
