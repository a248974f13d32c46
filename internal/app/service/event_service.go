package service

import (
	"context"
	"database/sql"
	"time"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventService struct {
	eventRepo repository.EventRepository
	teamRepo  repository.TeamRepository
	db        *sql.DB // For transactions
}

func NewEventService(eventRepo repository.EventRepository, teamRepo repository.TeamRepository, db *sql.DB) *EventService {
	return &EventService{eventRepo: eventRepo, teamRepo: teamRepo, db: db}
}

type EventDetailsRequest struct {
	ProblemStatements []model.ProblemStatement  `json:"problem_statements,omitempty"`
	ScheduleDays      []model.ScheduleDay       `json:"schedule_days,omitempty"`
	Eligibility       []model.EligibilityRule   `json:"eligibility,omitempty"`
	Steps             []model.ParticipationStep `json:"participation_steps,omitempty"`
	Organizers        []model.Organizer         `json:"organizers,omitempty"`
	FAQs              []model.FAQ               `json:"faqs,omitempty"`
	Sponsors          []model.Sponsor           `json:"sponsors,omitempty"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
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

	Details EventDetailsRequest `json:"details"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	HeroDetails *string `json:"hero_details,omitempty"`
	WhatIsEvent *string `json:"what_is_event,omitempty"`
	AboutEvent  *string `json:"about_event,omitempty"`
	Benefits    *string `json:"benefits,omitempty"`

	RegistrationOpen  *time.Time `json:"registration_open,omitempty"`
	RegistrationClose *time.Time `json:"registration_close,omitempty"`
	EventStart        *time.Time `json:"event_start,omitempty"`
	EventEnd          *time.Time `json:"event_end,omitempty"`

	VenueName    *string `json:"venue_name,omitempty"`
	VenueAddress *string `json:"venue_address,omitempty"`
	VenueMapLink *string `json:"venue_map_link,omitempty"`

	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactWhatsapp  *string `json:"contact_whatsapp,omitempty"`
	ContactInstagram *string `json:"contact_instagram,omitempty"`
	ContactLinkedin  *string `json:"contact_linkedin,omitempty"`

	Status  *model.EventStatus   `json:"status,omitempty"`
	Details *EventDetailsRequest `json:"details,omitempty"`
}

// validateTimeline enforces registration-open <= registration-close <=
// event-start <= event-end.
func validateTimeline(e *model.Event) error {
	if e.RegistrationOpen.IsZero() || e.RegistrationClose.IsZero() || e.EventStart.IsZero() || e.EventEnd.IsZero() {
		return common.Errorf("all four event timestamps are required: %w", common.ErrValidation)
	}
	if e.RegistrationClose.Before(e.RegistrationOpen) ||
		e.EventStart.Before(e.RegistrationClose) ||
		e.EventEnd.Before(e.EventStart) {
		return common.Errorf("event timestamps must be ordered registration_open <= registration_close <= event_start <= event_end: %w", common.ErrValidation)
	}
	return nil
}

func (s *EventService) CreateEvent(ctx context.Context, creatorID string, req CreateEventRequest) (*model.Event, error) {
	if req.Title == "" || req.ContactEmail == "" || req.VenueName == "" {
		return nil, common.Errorf("title, venue name and contact email are required: %w", common.ErrValidation)
	}

	event := &model.Event{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Slug:              slug.Make(req.Title),
		HeroDetails:       req.HeroDetails,
		WhatIsEvent:       req.WhatIsEvent,
		AboutEvent:        req.AboutEvent,
		Benefits:          req.Benefits,
		RegistrationOpen:  req.RegistrationOpen,
		RegistrationClose: req.RegistrationClose,
		EventStart:        req.EventStart,
		EventEnd:          req.EventEnd,
		VenueName:         req.VenueName,
		VenueAddress:      req.VenueAddress,
		VenueMapLink:      req.VenueMapLink,
		ContactEmail:      req.ContactEmail,
		ContactWhatsapp:   req.ContactWhatsapp,
		ContactInstagram:  req.ContactInstagram,
		ContactLinkedin:   req.ContactLinkedin,
		Status:            model.EventDraft, // Every event starts in draft
		CreatedByID:       &creatorID,
	}
	if err := validateTimeline(event); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.CreateEvent(ctx, tx, event); err != nil {
		return nil, common.Errorf("failed to create event: %w", err)
	}
	if err := s.replaceDetails(ctx, tx, event.ID, req.Details); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return event, nil
}

// UpdateEvent is restricted to the creator (or Admin). Status changes go
// through the transition table; completed and canceled are terminal.
func (s *EventService) UpdateEvent(ctx context.Context, callerID, callerRole, eventID string, req UpdateEventRequest) (*model.Event, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !s.isOwner(event, callerID) && callerRole != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	if req.Title != nil {
		event.Title = *req.Title
		event.Slug = slug.Make(*req.Title)
	}
	if req.HeroDetails != nil {
		event.HeroDetails = *req.HeroDetails
	}
	if req.WhatIsEvent != nil {
		event.WhatIsEvent = *req.WhatIsEvent
	}
	if req.AboutEvent != nil {
		event.AboutEvent = *req.AboutEvent
	}
	if req.Benefits != nil {
		event.Benefits = *req.Benefits
	}
	if req.RegistrationOpen != nil {
		event.RegistrationOpen = *req.RegistrationOpen
	}
	if req.RegistrationClose != nil {
		event.RegistrationClose = *req.RegistrationClose
	}
	if req.EventStart != nil {
		event.EventStart = *req.EventStart
	}
	if req.EventEnd != nil {
		event.EventEnd = *req.EventEnd
	}
	if req.VenueName != nil {
		event.VenueName = *req.VenueName
	}
	if req.VenueAddress != nil {
		event.VenueAddress = *req.VenueAddress
	}
	if req.VenueMapLink != nil {
		event.VenueMapLink = req.VenueMapLink
	}
	if req.ContactEmail != nil {
		event.ContactEmail = *req.ContactEmail
	}
	if req.ContactWhatsapp != nil {
		event.ContactWhatsapp = req.ContactWhatsapp
	}
	if req.ContactInstagram != nil {
		event.ContactInstagram = req.ContactInstagram
	}
	if req.ContactLinkedin != nil {
		event.ContactLinkedin = req.ContactLinkedin
	}
	if err := validateTimeline(event); err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !event.Status.CanTransition(*req.Status) {
			return nil, common.Errorf("event status cannot change from %s to %s: %w", event.Status, *req.Status, common.ErrValidation)
		}
		event.Status = *req.Status
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.UpdateEvent(ctx, tx, event); err != nil {
		return nil, common.Errorf("failed to update event: %w", err)
	}
	if req.Details != nil {
		if err := s.replaceDetails(ctx, tx, event.ID, *req.Details); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return event, nil
}

func (s *EventService) replaceDetails(ctx context.Context, tx *sql.Tx, eventID string, d EventDetailsRequest) error {
	for i := range d.ProblemStatements {
		if d.ProblemStatements[i].ID == "" {
			d.ProblemStatements[i].ID = uuid.NewString()
		}
	}
	for i := range d.ScheduleDays {
		if d.ScheduleDays[i].ID == "" {
			d.ScheduleDays[i].ID = uuid.NewString()
		}
		for j := range d.ScheduleDays[i].Items {
			if d.ScheduleDays[i].Items[j].ID == "" {
				d.ScheduleDays[i].Items[j].ID = uuid.NewString()
			}
		}
	}
	for i := range d.Eligibility {
		if d.Eligibility[i].ID == "" {
			d.Eligibility[i].ID = uuid.NewString()
		}
	}
	for i := range d.Steps {
		if d.Steps[i].ID == "" {
			d.Steps[i].ID = uuid.NewString()
		}
	}
	for i := range d.Organizers {
		if d.Organizers[i].ID == "" {
			d.Organizers[i].ID = uuid.NewString()
		}
	}
	for i := range d.FAQs {
		if d.FAQs[i].ID == "" {
			d.FAQs[i].ID = uuid.NewString()
		}
	}
	for i := range d.Sponsors {
		if d.Sponsors[i].ID == "" {
			d.Sponsors[i].ID = uuid.NewString()
		}
	}

	if err := s.eventRepo.ReplaceProblemStatements(ctx, tx, eventID, d.ProblemStatements); err != nil {
		return common.Errorf("failed to replace problem statements: %w", err)
	}
	if err := s.eventRepo.ReplaceSchedule(ctx, tx, eventID, d.ScheduleDays); err != nil {
		return common.Errorf("failed to replace schedule: %w", err)
	}
	if err := s.eventRepo.ReplaceEligibility(ctx, tx, eventID, d.Eligibility); err != nil {
		return common.Errorf("failed to replace eligibility: %w", err)
	}
	if err := s.eventRepo.ReplaceSteps(ctx, tx, eventID, d.Steps); err != nil {
		return common.Errorf("failed to replace participation steps: %w", err)
	}
	if err := s.eventRepo.ReplaceOrganizers(ctx, tx, eventID, d.Organizers); err != nil {
		return common.Errorf("failed to replace organizers: %w", err)
	}
	if err := s.eventRepo.ReplaceFAQs(ctx, tx, eventID, d.FAQs); err != nil {
		return common.Errorf("failed to replace faqs: %w", err)
	}
	if err := s.eventRepo.ReplaceSponsors(ctx, tx, eventID, d.Sponsors); err != nil {
		return common.Errorf("failed to replace sponsors: %w", err)
	}
	return nil
}

// GetEventBySlug serves the public detail page. Anything not published is
// invisible to everyone except the creator and Admin, and invisibility is
// reported as NotFound so the caller cannot probe for drafts.
func (s *EventService) GetEventBySlug(ctx context.Context, callerID, callerRole, eventSlug string) (*model.Event, error) {
	event, err := s.eventRepo.FindEventBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPublished {
		if !s.isOwner(event, callerID) && callerRole != model.RoleAdmin {
			return nil, common.ErrNotFound
		}
	}
	if err := s.eventRepo.LoadDetails(ctx, event); err != nil {
		return nil, common.Errorf("failed to load event details: %w", err)
	}
	return event, nil
}

func (s *EventService) ListPublishedEvents(ctx context.Context, limit, offset int) ([]model.Event, error) {
	events, err := s.eventRepo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, common.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) isOwner(event *model.Event, callerID string) bool {
	return event.CreatedByID != nil && *event.CreatedByID == callerID && callerID != ""
}

type EventSummary struct {
	Event       model.Event `json:"event"`
	TeamCount   int         `json:"team_count"`
	MemberCount int         `json:"member_count"`
}

// ManagerDashboard lists the caller's own events with team tallies.
func (s *EventService) ManagerDashboard(ctx context.Context, managerID string) ([]EventSummary, error) {
	events, err := s.eventRepo.ListByCreator(ctx, managerID)
	if err != nil {
		return nil, common.Errorf("failed to list manager events: %w", err)
	}
	return s.summarize(ctx, events)
}

// OrganizerDashboard gives the cross-event view over everything live.
func (s *EventService) OrganizerDashboard(ctx context.Context) ([]EventSummary, error) {
	events, err := s.eventRepo.ListPublished(ctx, 100, 0)
	if err != nil {
		return nil, common.Errorf("failed to list published events: %w", err)
	}
	return s.summarize(ctx, events)
}

func (s *EventService) summarize(ctx context.Context, events []model.Event) ([]EventSummary, error) {
	summaries := make([]EventSummary, 0, len(events))
	for _, e := range events {
		teams, err := s.teamRepo.CountTeamsByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		members, err := s.teamRepo.CountAcceptedMembersByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, EventSummary{Event: e, TeamCount: teams, MemberCount: members})
	}
	return summaries, nil
}
