package model

import (
	"time"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCompleted EventStatus = "completed"
	EventCanceled  EventStatus = "canceled"
)

// CanTransition reports whether an event may move between the two
// statuses. Completed and canceled are terminal.
func (s EventStatus) CanTransition(to EventStatus) bool {
	if s == to {
		return true
	}
	switch s {
	case EventDraft:
		return to == EventPublished || to == EventCanceled
	case EventPublished:
		return to == EventCompleted || to == EventCanceled
	}
	return false
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	HeroDetails string `json:"hero_details"`
	WhatIsEvent string `json:"what_is_event"`
	AboutEvent  string `json:"about_event"`
	Benefits    string `json:"benefits"`

	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	EventStart        time.Time `json:"event_start"`
	EventEnd          time.Time `json:"event_end"`

	VenueName    string  `json:"venue_name"`
	VenueAddress string  `json:"venue_address"`
	VenueMapLink *string `json:"venue_map_link,omitempty"`

	ContactEmail     string  `json:"contact_email"`
	ContactWhatsapp  *string `json:"contact_whatsapp,omitempty"`
	ContactInstagram *string `json:"contact_instagram,omitempty"`
	ContactLinkedin  *string `json:"contact_linkedin,omitempty"`

	Status      EventStatus `json:"status"`
	CreatedByID *string     `json:"created_by_id,omitempty"` // nullable, creator may be deleted
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	ProblemStatements []ProblemStatement  `json:"problem_statements,omitempty"`
	ScheduleDays      []ScheduleDay       `json:"schedule_days,omitempty"`
	Eligibility       []EligibilityRule   `json:"eligibility,omitempty"`
	Steps             []ParticipationStep `json:"participation_steps,omitempty"`
	Organizers        []Organizer         `json:"organizers,omitempty"`
	FAQs              []FAQ               `json:"faqs,omitempty"`
	Sponsors          []Sponsor           `json:"sponsors,omitempty"`

	CreatedByUsername *string `json:"created_by_username,omitempty"` // For display
}

type ProblemStatement struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScheduleDay struct {
	ID        string         `json:"id"`
	EventID   string         `json:"event_id"`
	DayNumber int            `json:"day_number"`
	Date      time.Time      `json:"date"`
	Items     []ScheduleItem `json:"items,omitempty"`
}

type ScheduleItem struct {
	ID            string `json:"id"`
	ScheduleDayID string `json:"schedule_day_id"`
	StartTime     string `json:"start_time"` // HH:MM
	EndTime       string `json:"end_time"`
	Activity      string `json:"activity"`
}

type EligibilityRule struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	Description string `json:"description"`
}

type ParticipationStep struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

type Organizer struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"` // e.g. "Event Coordinator"
	ContactInfo *string `json:"contact_info,omitempty"`
}

type FAQ struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Sponsor struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	Name        string  `json:"name"`
	LogoURL     *string `json:"logo_url,omitempty"`
	WebsiteLink *string `json:"website_link,omitempty"`
	SponsorType string  `json:"sponsor_type"` // e.g. "Gold", "Media Partner"
}
