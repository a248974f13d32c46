package worker

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
	"hackportal/internal/domain/repository"
	"hackportal/internal/platform/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{AnnouncementQueueName: "announcement_fanout_queue"}
	os.Exit(m.Run())
}

// The fakes embed the repository interfaces so only the methods the
// fan-out actually calls need bodies.

type fakeInbox struct {
	repository.NotificationRepository
	announcements map[string]*model.Announcement
	rows          map[string]model.Notification // by id
}

func (f *fakeInbox) FindAnnouncementByID(ctx context.Context, id string) (*model.Announcement, error) {
	a, ok := f.announcements[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeInbox) CreateNotifications(ctx context.Context, notifications []model.Notification) error {
	for _, n := range notifications {
		if _, ok := f.rows[n.ID]; ok {
			continue // mirrors the insert's ON CONFLICT DO NOTHING
		}
		n.CreatedAt = time.Now()
		f.rows[n.ID] = n
	}
	return nil
}

type fakeRecipients struct {
	repository.TeamRepository
	userIDs []string
}

func (f *fakeRecipients) ListAcceptedUserIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	return f.userIDs, nil
}

type fakeEvents struct {
	repository.EventRepository
	event *model.Event
}

func (f *fakeEvents) FindEventByID(ctx context.Context, id string) (*model.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, common.ErrNotFound
	}
	return f.event, nil
}

func TestFanOut(t *testing.T) {
	inbox := &fakeInbox{
		announcements: map[string]*model.Announcement{
			"ann1": {ID: "ann1", EventID: "ev1", Message: "Lunch is served"},
		},
		rows: make(map[string]model.Notification),
	}
	recipients := &fakeRecipients{userIDs: []string{"alice", "bob", "carol"}}
	events := &fakeEvents{event: &model.Event{ID: "ev1", Title: "Campus Hack"}}

	w := NewNotificationWorker(nil, inbox, recipients, events)
	if err := w.fanOut(context.Background(), "ann1"); err != nil {
		t.Fatalf("fanOut failed: %v", err)
	}

	if len(inbox.rows) != 3 {
		t.Fatalf("inbox rows = %d, want 3", len(inbox.rows))
	}
	seen := map[string]bool{}
	for _, n := range inbox.rows {
		seen[n.UserID] = true
		if !strings.HasPrefix(n.Message, "[Campus Hack] ") {
			t.Errorf("message %q missing the event prefix", n.Message)
		}
		if n.IsRead {
			t.Errorf("new notification delivered as read")
		}
	}
	for _, userID := range recipients.userIDs {
		if !seen[userID] {
			t.Errorf("no notification for %s", userID)
		}
	}
}

// A redelivered job must not double-post: the notification ids are
// derived from (announcement, user), so the second pass inserts nothing.
func TestFanOutIsIdempotent(t *testing.T) {
	inbox := &fakeInbox{
		announcements: map[string]*model.Announcement{
			"ann1": {ID: "ann1", EventID: "ev1", Message: "Lunch is served"},
		},
		rows: make(map[string]model.Notification),
	}
	recipients := &fakeRecipients{userIDs: []string{"alice", "bob"}}
	events := &fakeEvents{event: &model.Event{ID: "ev1", Title: "Campus Hack"}}

	w := NewNotificationWorker(nil, inbox, recipients, events)
	for i := 0; i < 2; i++ {
		if err := w.fanOut(context.Background(), "ann1"); err != nil {
			t.Fatalf("fanOut pass %d failed: %v", i+1, err)
		}
	}
	if len(inbox.rows) != 2 {
		t.Fatalf("inbox rows = %d after redelivery, want 2", len(inbox.rows))
	}
}

func TestFanOutUnknownAnnouncement(t *testing.T) {
	inbox := &fakeInbox{announcements: map[string]*model.Announcement{}, rows: map[string]model.Notification{}}
	w := NewNotificationWorker(nil, inbox, &fakeRecipients{}, &fakeEvents{})
	if err := w.fanOut(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for an unknown announcement")
	}
}
