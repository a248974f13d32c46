package model

import "time"

// Announcement is a one-way broadcast attached to an event. Delivery to
// per-user inboxes happens asynchronously through the fan-out worker.
type Announcement struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Message     string    `json:"message"`
	CreatedByID *string   `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteCode is a staff-onboarding token: registering with a live code
// grants its role instead of the default Participant. Independent of team
// join codes.
type InviteCode struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Role        string    `json:"role"`
	MaxUses     int       `json:"max_uses"`
	UsedCount   int       `json:"used_count"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}
