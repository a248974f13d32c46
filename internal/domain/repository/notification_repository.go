package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
)

type NotificationRepository interface {
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	FindAnnouncementByID(ctx context.Context, id string) (*model.Announcement, error)
	ListAnnouncementsByEvent(ctx context.Context, eventID string) ([]model.Announcement, error)
	CreateNotifications(ctx context.Context, notifications []model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	query := `INSERT INTO announcements (id, event_id, message, created_by)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.EventID, a.Message, a.CreatedByID)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.CreateAnnouncement: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) FindAnnouncementByID(ctx context.Context, id string) (*model.Announcement, error) {
	query := `SELECT id, event_id, message, created_by, created_at
	          FROM announcements WHERE id = $1`
	a := &model.Announcement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.EventID, &a.Message, &a.CreatedByID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgNotificationRepository.FindAnnouncementByID: %w", err)
	}
	return a, nil
}

func (r *pgNotificationRepository) ListAnnouncementsByEvent(ctx context.Context, eventID string) ([]model.Announcement, error) {
	query := `SELECT id, event_id, message, created_by, created_at
	          FROM announcements WHERE event_id = $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListAnnouncementsByEvent: %w", err)
	}
	defer rows.Close()

	var out []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.EventID, &a.Message, &a.CreatedByID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListAnnouncementsByEvent scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateNotifications inserts the fan-out batch. ON CONFLICT DO NOTHING
// keeps redelivery of a fan-out job idempotent.
func (r *pgNotificationRepository) CreateNotifications(ctx context.Context, notifications []model.Notification) error {
	query := `INSERT INTO notifications (id, user_id, message)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (id) DO NOTHING`
	for _, n := range notifications {
		if _, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Message); err != nil {
			return fmt.Errorf("pgNotificationRepository.CreateNotifications: %w", err)
		}
	}
	return nil
}

func (r *pgNotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at
	          FROM notifications WHERE user_id = $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListByUser scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *pgNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgNotificationRepository.MarkAllRead rows: %w", err)
	}
	return int(n), nil
}
