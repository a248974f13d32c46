package model

import (
	"time"
)

const (
	RoleParticipant      = "Participant"
	RoleJudge            = "Judge"
	RoleEventManager     = "EventManager"
	RoleLeadOrganizer    = "LeadOrganizer"
	RoleVolunteer        = "Volunteer"
	RoleTechnicalLead    = "TechnicalLead"
	RoleTechnicalSupport = "TechnicalSupport"
	RoleAdmin            = "Admin"
)

// ValidRole reports whether the tag is one of the known role tags.
func ValidRole(role string) bool {
	switch role {
	case RoleParticipant, RoleJudge, RoleEventManager, RoleLeadOrganizer,
		RoleVolunteer, RoleTechnicalLead, RoleTechnicalSupport, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Profile is the one-to-one extension record carrying the role tag and
// participant metadata. Every account has at most one profile; an account
// without a profile can never pass a role gate.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	College   *string   `json:"college,omitempty"`
	RollNo    *string   `json:"roll_no,omitempty"`
	Branch    *string   `json:"branch,omitempty"`
	Year      *int      `json:"year,omitempty"`
	Skills    *string   `json:"skills,omitempty"`
	Links     *string   `json:"links,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
