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

type EventRepository interface {
	CreateEvent(ctx context.Context, tx *sql.Tx, event *model.Event) error
	UpdateEvent(ctx context.Context, tx *sql.Tx, event *model.Event) error
	FindEventByID(ctx context.Context, id string) (*model.Event, error)
	FindEventBySlug(ctx context.Context, slug string) (*model.Event, error)
	ListPublished(ctx context.Context, limit, offset int) ([]model.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error)

	ReplaceProblemStatements(ctx context.Context, tx *sql.Tx, eventID string, items []model.ProblemStatement) error
	ReplaceFAQs(ctx context.Context, tx *sql.Tx, eventID string, items []model.FAQ) error
	ReplaceEligibility(ctx context.Context, tx *sql.Tx, eventID string, items []model.EligibilityRule) error
	ReplaceSteps(ctx context.Context, tx *sql.Tx, eventID string, items []model.ParticipationStep) error
	ReplaceOrganizers(ctx context.Context, tx *sql.Tx, eventID string, items []model.Organizer) error
	ReplaceSponsors(ctx context.Context, tx *sql.Tx, eventID string, items []model.Sponsor) error
	ReplaceSchedule(ctx context.Context, tx *sql.Tx, eventID string, days []model.ScheduleDay) error

	LoadDetails(ctx context.Context, event *model.Event) error
}

type pgEventRepository struct {
	db *sql.DB
}

func NewPgEventRepository(db *sql.DB) EventRepository {
	return &pgEventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.slug, e.hero_details, e.what_is_event, e.about_event, e.benefits,
	e.registration_open, e.registration_close, e.event_start, e.event_end,
	e.venue_name, e.venue_address, e.venue_map_link,
	e.contact_email, e.contact_whatsapp, e.contact_instagram, e.contact_linkedin,
	e.status, e.created_by, e.created_at, e.updated_at`

func (r *pgEventRepository) CreateEvent(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	query := `INSERT INTO events (id, title, slug, hero_details, what_is_event, about_event, benefits,
	            registration_open, registration_close, event_start, event_end,
	            venue_name, venue_address, venue_map_link,
	            contact_email, contact_whatsapp, contact_instagram, contact_linkedin,
	            status, created_by)
	          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`
	args := []any{e.ID, e.Title, e.Slug, e.HeroDetails, e.WhatIsEvent, e.AboutEvent, e.Benefits,
		e.RegistrationOpen, e.RegistrationClose, e.EventStart, e.EventEnd,
		e.VenueName, e.VenueAddress, e.VenueMapLink,
		e.ContactEmail, e.ContactWhatsapp, e.ContactInstagram, e.ContactLinkedin,
		e.Status, e.CreatedByID}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // slug unique
			return fmt.Errorf("event with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgEventRepository.CreateEvent: %w", err)
	}
	return nil
}

func (r *pgEventRepository) UpdateEvent(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	query := `UPDATE events SET
	            title = $1, slug = $2, hero_details = $3, what_is_event = $4, about_event = $5, benefits = $6,
	            registration_open = $7, registration_close = $8, event_start = $9, event_end = $10,
	            venue_name = $11, venue_address = $12, venue_map_link = $13,
	            contact_email = $14, contact_whatsapp = $15, contact_instagram = $16, contact_linkedin = $17,
	            status = $18, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $19`
	args := []any{e.Title, e.Slug, e.HeroDetails, e.WhatIsEvent, e.AboutEvent, e.Benefits,
		e.RegistrationOpen, e.RegistrationClose, e.EventStart, e.EventEnd,
		e.VenueName, e.VenueAddress, e.VenueMapLink,
		e.ContactEmail, e.ContactWhatsapp, e.ContactInstagram, e.ContactLinkedin,
		e.Status, e.ID}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("event with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgEventRepository.UpdateEvent: %w", err)
	}
	return nil
}

func (r *pgEventRepository) FindEventByID(ctx context.Context, id string) (*model.Event, error) {
	return r.findEvent(ctx, `e.id = $1`, id)
}

func (r *pgEventRepository) FindEventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.findEvent(ctx, `e.slug = $1`, slug)
}

func (r *pgEventRepository) findEvent(ctx context.Context, where string, arg any) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `, cb.username
	          FROM events e
	          LEFT JOIN users cb ON e.created_by = cb.id
	          WHERE ` + where

	e := &model.Event{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&e.ID, &e.Title, &e.Slug, &e.HeroDetails, &e.WhatIsEvent, &e.AboutEvent, &e.Benefits,
		&e.RegistrationOpen, &e.RegistrationClose, &e.EventStart, &e.EventEnd,
		&e.VenueName, &e.VenueAddress, &e.VenueMapLink,
		&e.ContactEmail, &e.ContactWhatsapp, &e.ContactInstagram, &e.ContactLinkedin,
		&e.Status, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt,
		&e.CreatedByUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEventRepository.findEvent: %w", err)
	}
	return e, nil
}

func (r *pgEventRepository) ListPublished(ctx context.Context, limit, offset int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + eventColumns + `, cb.username
	          FROM events e
	          LEFT JOIN users cb ON e.created_by = cb.id
	          WHERE e.status = $1
	          ORDER BY e.event_start DESC
	          LIMIT $2 OFFSET $3`
	return r.listEvents(ctx, query, model.EventPublished, limit, offset)
}

func (r *pgEventRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + `, cb.username
	          FROM events e
	          LEFT JOIN users cb ON e.created_by = cb.id
	          WHERE e.created_by = $1
	          ORDER BY e.created_at DESC`
	return r.listEvents(ctx, query, creatorID)
}

func (r *pgEventRepository) listEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.listEvents: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Slug, &e.HeroDetails, &e.WhatIsEvent, &e.AboutEvent, &e.Benefits,
			&e.RegistrationOpen, &e.RegistrationClose, &e.EventStart, &e.EventEnd,
			&e.VenueName, &e.VenueAddress, &e.VenueMapLink,
			&e.ContactEmail, &e.ContactWhatsapp, &e.ContactInstagram, &e.ContactLinkedin,
			&e.Status, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt,
			&e.CreatedByUsername,
		); err != nil {
			return nil, fmt.Errorf("pgEventRepository.listEvents scan: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Detail collections are replaced wholesale inside the caller's
// transaction; rows cascade-delete with their event.

func (r *pgEventRepository) ReplaceProblemStatements(ctx context.Context, tx *sql.Tx, eventID string, items []model.ProblemStatement) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM problem_statements WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceProblemStatements delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO problem_statements (id, event_id, title, description) VALUES ($1, $2, $3, $4)`,
			it.ID, eventID, it.Title, it.Description)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceProblemStatements insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceFAQs(ctx context.Context, tx *sql.Tx, eventID string, items []model.FAQ) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM faqs WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceFAQs delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO faqs (id, event_id, question, answer) VALUES ($1, $2, $3, $4)`,
			it.ID, eventID, it.Question, it.Answer)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceFAQs insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceEligibility(ctx context.Context, tx *sql.Tx, eventID string, items []model.EligibilityRule) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM eligibility_rules WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceEligibility delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO eligibility_rules (id, event_id, description) VALUES ($1, $2, $3)`,
			it.ID, eventID, it.Description)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceEligibility insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceSteps(ctx context.Context, tx *sql.Tx, eventID string, items []model.ParticipationStep) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM participation_steps WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceSteps delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO participation_steps (id, event_id, step_number, description) VALUES ($1, $2, $3, $4)`,
			it.ID, eventID, it.StepNumber, it.Description)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceSteps insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceOrganizers(ctx context.Context, tx *sql.Tx, eventID string, items []model.Organizer) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM organizers WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceOrganizers delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO organizers (id, event_id, name, role, contact_info) VALUES ($1, $2, $3, $4, $5)`,
			it.ID, eventID, it.Name, it.Role, it.ContactInfo)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceOrganizers insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceSponsors(ctx context.Context, tx *sql.Tx, eventID string, items []model.Sponsor) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sponsors WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceSponsors delete: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sponsors (id, event_id, name, logo_url, website_link, sponsor_type) VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, eventID, it.Name, it.LogoURL, it.WebsiteLink, it.SponsorType)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceSponsors insert: %w", err)
		}
	}
	return nil
}

func (r *pgEventRepository) ReplaceSchedule(ctx context.Context, tx *sql.Tx, eventID string, days []model.ScheduleDay) error {
	// schedule_items cascade from schedule_days
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_days WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("pgEventRepository.ReplaceSchedule delete: %w", err)
	}
	for _, day := range days {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_days (id, event_id, day_number, date) VALUES ($1, $2, $3, $4)`,
			day.ID, eventID, day.DayNumber, day.Date)
		if err != nil {
			return fmt.Errorf("pgEventRepository.ReplaceSchedule insert day: %w", err)
		}
		for _, item := range day.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schedule_items (id, schedule_day_id, start_time, end_time, activity) VALUES ($1, $2, $3, $4, $5)`,
				item.ID, day.ID, item.StartTime, item.EndTime, item.Activity)
			if err != nil {
				return fmt.Errorf("pgEventRepository.ReplaceSchedule insert item: %w", err)
			}
		}
	}
	return nil
}

// LoadDetails hydrates all nested collections for a single event view.
func (r *pgEventRepository) LoadDetails(ctx context.Context, e *model.Event) error {
	var err error
	if e.ProblemStatements, err = r.problemStatements(ctx, e.ID); err != nil {
		return err
	}
	if e.FAQs, err = r.faqs(ctx, e.ID); err != nil {
		return err
	}
	if e.Eligibility, err = r.eligibility(ctx, e.ID); err != nil {
		return err
	}
	if e.Steps, err = r.steps(ctx, e.ID); err != nil {
		return err
	}
	if e.Organizers, err = r.organizers(ctx, e.ID); err != nil {
		return err
	}
	if e.Sponsors, err = r.sponsors(ctx, e.ID); err != nil {
		return err
	}
	if e.ScheduleDays, err = r.schedule(ctx, e.ID); err != nil {
		return err
	}
	return nil
}

func (r *pgEventRepository) problemStatements(ctx context.Context, eventID string) ([]model.ProblemStatement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, title, description, created_at FROM problem_statements WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.problemStatements: %w", err)
	}
	defer rows.Close()
	var out []model.ProblemStatement
	for rows.Next() {
		var it model.ProblemStatement
		if err := rows.Scan(&it.ID, &it.EventID, &it.Title, &it.Description, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgEventRepository.problemStatements scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) faqs(ctx context.Context, eventID string) ([]model.FAQ, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, question, answer FROM faqs WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.faqs: %w", err)
	}
	defer rows.Close()
	var out []model.FAQ
	for rows.Next() {
		var it model.FAQ
		if err := rows.Scan(&it.ID, &it.EventID, &it.Question, &it.Answer); err != nil {
			return nil, fmt.Errorf("pgEventRepository.faqs scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) eligibility(ctx context.Context, eventID string) ([]model.EligibilityRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, description FROM eligibility_rules WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.eligibility: %w", err)
	}
	defer rows.Close()
	var out []model.EligibilityRule
	for rows.Next() {
		var it model.EligibilityRule
		if err := rows.Scan(&it.ID, &it.EventID, &it.Description); err != nil {
			return nil, fmt.Errorf("pgEventRepository.eligibility scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) steps(ctx context.Context, eventID string) ([]model.ParticipationStep, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, step_number, description FROM participation_steps WHERE event_id = $1 ORDER BY step_number`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.steps: %w", err)
	}
	defer rows.Close()
	var out []model.ParticipationStep
	for rows.Next() {
		var it model.ParticipationStep
		if err := rows.Scan(&it.ID, &it.EventID, &it.StepNumber, &it.Description); err != nil {
			return nil, fmt.Errorf("pgEventRepository.steps scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) organizers(ctx context.Context, eventID string) ([]model.Organizer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, name, role, contact_info FROM organizers WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.organizers: %w", err)
	}
	defer rows.Close()
	var out []model.Organizer
	for rows.Next() {
		var it model.Organizer
		if err := rows.Scan(&it.ID, &it.EventID, &it.Name, &it.Role, &it.ContactInfo); err != nil {
			return nil, fmt.Errorf("pgEventRepository.organizers scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) sponsors(ctx context.Context, eventID string) ([]model.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, name, logo_url, website_link, sponsor_type FROM sponsors WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.sponsors: %w", err)
	}
	defer rows.Close()
	var out []model.Sponsor
	for rows.Next() {
		var it model.Sponsor
		if err := rows.Scan(&it.ID, &it.EventID, &it.Name, &it.LogoURL, &it.WebsiteLink, &it.SponsorType); err != nil {
			return nil, fmt.Errorf("pgEventRepository.sponsors scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *pgEventRepository) schedule(ctx context.Context, eventID string) ([]model.ScheduleDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, day_number, date FROM schedule_days WHERE event_id = $1 ORDER BY day_number`, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.schedule: %w", err)
	}
	defer rows.Close()
	var days []model.ScheduleDay
	for rows.Next() {
		var d model.ScheduleDay
		if err := rows.Scan(&d.ID, &d.EventID, &d.DayNumber, &d.Date); err != nil {
			return nil, fmt.Errorf("pgEventRepository.schedule scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range days {
		itemRows, err := r.db.QueryContext(ctx,
			`SELECT id, schedule_day_id, start_time, end_time, activity FROM schedule_items WHERE schedule_day_id = $1 ORDER BY start_time`, days[i].ID)
		if err != nil {
			return nil, fmt.Errorf("pgEventRepository.schedule items: %w", err)
		}
		for itemRows.Next() {
			var it model.ScheduleItem
			if err := itemRows.Scan(&it.ID, &it.ScheduleDayID, &it.StartTime, &it.EndTime, &it.Activity); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("pgEventRepository.schedule items scan: %w", err)
			}
			days[i].Items = append(days[i].Items, it)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, err
		}
	}
	return days, nil
}
