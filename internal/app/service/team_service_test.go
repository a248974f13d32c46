package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
)

func publishedEvent(id string) model.Event {
	now := time.Now()
	return model.Event{
		ID:                id,
		Title:             "Hack Night " + id,
		Slug:              "hack-night-" + id,
		RegistrationOpen:  now,
		RegistrationClose: now.Add(24 * time.Hour),
		EventStart:        now.Add(48 * time.Hour),
		EventEnd:          now.Add(72 * time.Hour),
		VenueName:         "Main Hall",
		ContactEmail:      "org@example.com",
		Status:            model.EventPublished,
	}
}

func newTeamService(t *testing.T) (*TeamService, *fakeTeamRepo, *fakeEventRepo) {
	t.Helper()
	teamRepo := newFakeTeamRepo()
	eventRepo := newFakeEventRepo()
	return NewTeamService(teamRepo, eventRepo, newTestDB(t)), teamRepo, eventRepo
}

func TestCreateTeam(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	team, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{
		EventID: "ev1",
		Name:    "Bit Flippers",
	})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if team.LeaderID != "alice" {
		t.Errorf("leader = %q, want alice", team.LeaderID)
	}
	if team.MaxSize != 4 {
		t.Errorf("max size = %d, want the default 4", team.MaxSize)
	}
	if len(team.JoinCode) != 8 {
		t.Errorf("join code %q has length %d, want 8", team.JoinCode, len(team.JoinCode))
	}
	if len(team.Members) != 1 || team.Members[0].Role != model.TeamRoleLeader {
		t.Fatalf("expected the creator as sole leader member, got %+v", team.Members)
	}
	if team.Members[0].Status != model.MemberAccepted {
		t.Errorf("leader status = %q, want accepted", team.Members[0].Status)
	}
}

func TestCreateTeamRejectsSecondTeamInEvent(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	if _, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "First"}); err != nil {
		t.Fatalf("first CreateTeam failed: %v", err)
	}
	_, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Second"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict for a second team in the same event, got %v", err)
	}
}

func TestCreateTeamNameUniquePerEvent(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))
	eventRepo.addEvent(publishedEvent("ev2"))

	if _, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Bit Flippers"}); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	// Same name in the same event is rejected even with a different caller
	// and case.
	_, err := svc.CreateTeam(context.Background(), "bob", CreateTeamRequest{EventID: "ev1", Name: "bit flippers"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate name in event, got %v", err)
	}

	// The same name is free in another event.
	if _, err := svc.CreateTeam(context.Background(), "bob", CreateTeamRequest{EventID: "ev2", Name: "Bit Flippers"}); err != nil {
		t.Fatalf("same name in another event should be allowed, got %v", err)
	}
}

func TestCreateTeamRequiresPublishedEvent(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	draft := publishedEvent("ev1")
	draft.Status = model.EventDraft
	eventRepo.addEvent(draft)

	_, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Bit Flippers"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a draft event, got %v", err)
	}
}

func TestJoinTeam(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	team, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Bit Flippers"})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	joined, err := svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: team.JoinCode})
	if err != nil {
		t.Fatalf("JoinTeam failed: %v", err)
	}
	if joined.ID != team.ID {
		t.Errorf("joined team %q, want %q", joined.ID, team.ID)
	}

	full, err := svc.MyTeam(context.Background(), "bob", "ev1")
	if err != nil {
		t.Fatalf("MyTeam failed: %v", err)
	}
	if len(full.Members) != 2 {
		t.Fatalf("member count = %d, want 2", len(full.Members))
	}
}

func TestJoinTeamCodeIsCaseInsensitive(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	team, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Bit Flippers"})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	lower := " " + strings.ToLower(team.JoinCode) + " " // also exercises trimming
	if _, err := svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: lower}); err != nil {
		t.Fatalf("JoinTeam with lowercased code failed: %v", err)
	}
}

func TestJoinTeamUnknownCode(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	_, err := svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: "NOPE1234"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestJoinTeamRejectsSecondMembership(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	first, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "First"})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	second, err := svc.CreateTeam(context.Background(), "carol", CreateTeamRequest{EventID: "ev1", Name: "Second"})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	if _, err := svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: first.JoinCode}); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	_, err = svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: second.JoinCode})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict for a second membership, got %v", err)
	}
}

func TestJoinTeamFull(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	team, err := svc.CreateTeam(context.Background(), "alice", CreateTeamRequest{EventID: "ev1", Name: "Tiny", MaxSize: 2})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if _, err := svc.JoinTeam(context.Background(), "bob", JoinTeamRequest{EventID: "ev1", JoinCode: team.JoinCode}); err != nil {
		t.Fatalf("join up to capacity failed: %v", err)
	}

	_, err = svc.JoinTeam(context.Background(), "carol", JoinTeamRequest{EventID: "ev1", JoinCode: team.JoinCode})
	if !errors.Is(err, common.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestMyTeamWithoutMembership(t *testing.T) {
	svc, _, eventRepo := newTeamService(t)
	eventRepo.addEvent(publishedEvent("ev1"))

	_, err := svc.MyTeam(context.Background(), "nobody", "ev1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
