package service

import (
	"context"
	"errors"
	"testing"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
)

// The enqueue path needs a live redis connection, so these tests cover
// the invite and inbox operations, which never touch the queue.

func newAnnouncementService(t *testing.T) (*AnnouncementService, *fakeNotificationRepo, *fakeEventRepo, *fakeInviteRepo) {
	t.Helper()
	notificationRepo := newFakeNotificationRepo()
	eventRepo := newFakeEventRepo()
	inviteRepo := newFakeInviteRepo()
	svc := NewAnnouncementService(notificationRepo, eventRepo, inviteRepo, nil)
	return svc, notificationRepo, eventRepo, inviteRepo
}

func TestCreateInvite(t *testing.T) {
	svc, _, _, _ := newAnnouncementService(t)

	invite, err := svc.CreateInvite(context.Background(), "root", CreateInviteRequest{Role: model.RoleJudge})
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	if len(invite.Code) != 12 {
		t.Errorf("code %q has length %d, want 12", invite.Code, len(invite.Code))
	}
	if invite.MaxUses != 1 {
		t.Errorf("max uses = %d, want the default 1", invite.MaxUses)
	}

	listed, err := svc.ListInvites(context.Background(), "root")
	if err != nil {
		t.Fatalf("ListInvites failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Code != invite.Code {
		t.Errorf("listed invites = %+v", listed)
	}
}

func TestCreateInviteRejectsBadRoles(t *testing.T) {
	svc, _, _, _ := newAnnouncementService(t)

	if _, err := svc.CreateInvite(context.Background(), "root", CreateInviteRequest{Role: "Wizard"}); !errors.Is(err, common.ErrValidation) {
		t.Errorf("unknown role: expected ErrValidation, got %v", err)
	}
	if _, err := svc.CreateInvite(context.Background(), "root", CreateInviteRequest{Role: model.RoleAdmin}); !errors.Is(err, common.ErrValidation) {
		t.Errorf("admin by invite: expected ErrValidation, got %v", err)
	}
}

// Reading the inbox must not flip the unread flags; only the explicit
// mark-read call does, and it reports how many rows it touched.
func TestInboxReadDoesNotMarkRead(t *testing.T) {
	svc, notificationRepo, _, _ := newAnnouncementService(t)
	ctx := context.Background()

	if err := notificationRepo.CreateNotifications(ctx, []model.Notification{
		{ID: "n1", UserID: "alice", Message: "one"},
		{ID: "n2", UserID: "alice", Message: "two"},
		{ID: "n3", UserID: "bob", Message: "three"},
	}); err != nil {
		t.Fatalf("seed notifications: %v", err)
	}

	for i := 0; i < 2; i++ {
		listed, err := svc.ListNotifications(ctx, "alice")
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("notification count = %d, want 2", len(listed))
		}
		for _, n := range listed {
			if n.IsRead {
				t.Errorf("notification %s marked read by a plain list", n.ID)
			}
		}
	}

	marked, err := svc.MarkNotificationsRead(ctx, "alice")
	if err != nil {
		t.Fatalf("MarkNotificationsRead failed: %v", err)
	}
	if marked != 2 {
		t.Errorf("marked = %d, want 2", marked)
	}

	// Second call is a no-op.
	marked, err = svc.MarkNotificationsRead(ctx, "alice")
	if err != nil {
		t.Fatalf("MarkNotificationsRead failed: %v", err)
	}
	if marked != 0 {
		t.Errorf("marked = %d on repeat, want 0", marked)
	}

	// Bob's inbox is untouched.
	bobs, err := svc.ListNotifications(ctx, "bob")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(bobs) != 1 || bobs[0].IsRead {
		t.Errorf("bob's inbox altered: %+v", bobs)
	}
}

func TestListAnnouncementsForUnknownEvent(t *testing.T) {
	svc, _, _, _ := newAnnouncementService(t)
	_, err := svc.ListForEvent(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
