package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"
	"hackportal/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotificationWorker drains the announcement fan-out queue and writes one
// inbox row per accepted team member of the announcement's event.
type NotificationWorker struct {
	rdb              *redis.Client
	notificationRepo repository.NotificationRepository
	teamRepo         repository.TeamRepository
	eventRepo        repository.EventRepository
}

func NewNotificationWorker(
	rdb *redis.Client,
	notificationRepo repository.NotificationRepository,
	teamRepo repository.TeamRepository,
	eventRepo repository.EventRepository,
) *NotificationWorker {
	return &NotificationWorker{
		rdb:              rdb,
		notificationRepo: notificationRepo,
		teamRepo:         teamRepo,
		eventRepo:        eventRepo,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	queueName := config.AppConfig.AnnouncementQueueName
	log.Println("Notification worker started, listening to queue:", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopping...")
			return
		default:
			res, err := w.rdb.BRPop(ctx, 5*time.Second, queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue // timeout, nothing queued
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				log.Printf("ERROR: failed to BRPop from queue %q: %v", queueName, err)
				time.Sleep(5 * time.Second)
				continue
			}
			if len(res) < 2 || res[1] == "" {
				continue
			}
			if err := w.fanOut(ctx, res[1]); err != nil {
				log.Printf("ERROR: fan-out for announcement %s failed: %v", res[1], err)
				w.requeue(ctx, queueName, res[1])
			}
		}
	}
}

func (w *NotificationWorker) fanOut(ctx context.Context, announcementID string) error {
	announcement, err := w.notificationRepo.FindAnnouncementByID(ctx, announcementID)
	if err != nil {
		return fmt.Errorf("load announcement: %w", err)
	}
	event, err := w.eventRepo.FindEventByID(ctx, announcement.EventID)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}
	userIDs, err := w.teamRepo.ListAcceptedUserIDsByEvent(ctx, announcement.EventID)
	if err != nil {
		return fmt.Errorf("list recipients: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	message := fmt.Sprintf("[%s] %s", event.Title, announcement.Message)
	notifications := make([]model.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, model.Notification{
			// Deterministic per (announcement, user) so a redelivered job
			// cannot double-post to an inbox.
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(announcementID+":"+userID)).String(),
			UserID:  userID,
			Message: message,
		})
	}
	if err := w.notificationRepo.CreateNotifications(ctx, notifications); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	log.Printf("Announcement %s fanned out to %d inboxes.", announcementID, len(notifications))
	return nil
}

func (w *NotificationWorker) requeue(ctx context.Context, queueName, announcementID string) {
	if err := w.rdb.LPush(ctx, queueName, announcementID).Err(); err != nil {
		log.Printf("ERROR: failed to requeue announcement %s: %v", announcementID, err)
	}
}
