package service

import (
	"context"
	"log"
	"strings"

	"hackportal/internal/common"
	"hackportal/internal/common/security"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"
	"hackportal/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type AnnouncementService struct {
	notificationRepo repository.NotificationRepository
	eventRepo        repository.EventRepository
	inviteRepo       repository.InviteRepository
	rdb              *redis.Client
}

func NewAnnouncementService(
	notificationRepo repository.NotificationRepository,
	eventRepo repository.EventRepository,
	inviteRepo repository.InviteRepository,
	rdb *redis.Client,
) *AnnouncementService {
	return &AnnouncementService{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		inviteRepo:       inviteRepo,
		rdb:              rdb,
	}
}

type AnnounceRequest struct {
	Message string `json:"message"`
}

// Announce persists the broadcast and enqueues the fan-out job. The
// announcement row is the durable source; per-user inbox delivery is
// asynchronous and at-least-once.
func (s *AnnouncementService) Announce(ctx context.Context, callerID, callerRole, eventID string, req AnnounceRequest) (*model.Announcement, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, common.Errorf("announcement message is required: %w", common.ErrValidation)
	}

	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ownerOK := event.CreatedByID != nil && *event.CreatedByID == callerID
	if !ownerOK && callerRole != model.RoleLeadOrganizer && callerRole != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	announcement := &model.Announcement{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		Message:     strings.TrimSpace(req.Message),
		CreatedByID: &callerID,
	}
	if err := s.notificationRepo.CreateAnnouncement(ctx, announcement); err != nil {
		return nil, err
	}

	if err := s.rdb.LPush(ctx, config.AppConfig.AnnouncementQueueName, announcement.ID).Err(); err != nil {
		// The announcement is stored; delivery will miss until a manual
		// requeue. Log loudly instead of failing the request.
		log.Printf("ERROR: failed to enqueue fan-out for announcement %s: %v", announcement.ID, err)
	}
	return announcement, nil
}

func (s *AnnouncementService) ListForEvent(ctx context.Context, eventID string) ([]model.Announcement, error) {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.notificationRepo.ListAnnouncementsByEvent(ctx, eventID)
}

// ListNotifications is a pure read; it does not flip unread flags.
func (s *AnnouncementService) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

// MarkNotificationsRead marks every unread notification for the caller
// and reports how many were flipped.
func (s *AnnouncementService) MarkNotificationsRead(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

type CreateInviteRequest struct {
	Role    string `json:"role"`
	MaxUses int    `json:"max_uses"`
}

// CreateInvite issues a staff onboarding code granting the given role.
func (s *AnnouncementService) CreateInvite(ctx context.Context, callerID string, req CreateInviteRequest) (*model.InviteCode, error) {
	if !model.ValidRole(req.Role) {
		return nil, common.Errorf("unknown role %q: %w", req.Role, common.ErrValidation)
	}
	if req.Role == model.RoleAdmin {
		return nil, common.Errorf("admin accounts cannot be created by invite: %w", common.ErrValidation)
	}
	if req.MaxUses <= 0 {
		req.MaxUses = 1
	}

	code, err := security.GenerateCode(config.AppConfig.InviteCodeLength)
	if err != nil {
		return nil, err
	}
	invite := &model.InviteCode{
		ID:          uuid.NewString(),
		Code:        code,
		Role:        req.Role,
		MaxUses:     req.MaxUses,
		UsedCount:   0,
		CreatedByID: callerID,
	}
	if err := s.inviteRepo.CreateInviteCode(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *AnnouncementService) ListInvites(ctx context.Context, callerID string) ([]model.InviteCode, error) {
	return s.inviteRepo.ListByCreator(ctx, callerID)
}
