package service

import (
	"context"
	"errors"
	"testing"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
)

func newSubmissionService(t *testing.T) (*SubmissionService, *fakeSubmissionRepo, *fakeTeamRepo) {
	t.Helper()
	subRepo := newFakeSubmissionRepo()
	teamRepo := newFakeTeamRepo()
	return NewSubmissionService(subRepo, teamRepo), subRepo, teamRepo
}

func seedTeam(t *testing.T, repo *fakeTeamRepo, teamID, eventID, leaderID string, memberIDs ...string) {
	t.Helper()
	ctx := context.Background()
	if err := repo.CreateTeam(ctx, nil, &model.Team{
		ID: teamID, EventID: eventID, Name: "Team " + teamID, JoinCode: "CODE" + teamID, LeaderID: leaderID, MaxSize: 4,
	}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	members := append([]string{leaderID}, memberIDs...)
	for i, userID := range members {
		role := model.TeamRoleMember
		if i == 0 {
			role = model.TeamRoleLeader
		}
		if err := repo.CreateMember(ctx, nil, &model.TeamMember{
			ID: teamID + "-" + userID, TeamID: teamID, EventID: eventID, UserID: userID,
			Role: role, Status: model.MemberAccepted,
		}); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
}

func TestSubmitLeaderOnly(t *testing.T) {
	svc, _, teamRepo := newSubmissionService(t)
	seedTeam(t, teamRepo, "team1", "ev1", "alice", "bob")

	if _, err := svc.Submit(context.Background(), "alice", "team1", SubmitRequest{Title: "Project X"}); err != nil {
		t.Fatalf("leader submit failed: %v", err)
	}
	_, err := svc.Submit(context.Background(), "bob", "team1", SubmitRequest{Title: "Hijack"})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-leader, got %v", err)
	}
}

func TestSubmitRequiresTitle(t *testing.T) {
	svc, _, teamRepo := newSubmissionService(t)
	seedTeam(t, teamRepo, "team1", "ev1", "alice")

	_, err := svc.Submit(context.Background(), "alice", "team1", SubmitRequest{Title: "   "})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// Resubmitting replaces the previous content; the team never accumulates
// a second submission row.
func TestSubmitReplacesPrevious(t *testing.T) {
	svc, _, teamRepo := newSubmissionService(t)
	seedTeam(t, teamRepo, "team1", "ev1", "alice")

	first, err := svc.Submit(context.Background(), "alice", "team1", SubmitRequest{
		Title: "Draft", RepoLink: strPtr("https://example.com/old"),
	})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	second, err := svc.Submit(context.Background(), "alice", "team1", SubmitRequest{
		Title: "Final", RepoLink: strPtr("https://example.com/new"),
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("resubmission created a new row: id %q then %q", first.ID, second.ID)
	}
	if second.Title != "Final" {
		t.Errorf("title = %q, want Final", second.Title)
	}
	if second.RepoLink == nil || *second.RepoLink != "https://example.com/new" {
		t.Errorf("repo link not replaced: %v", second.RepoLink)
	}

	got, err := svc.GetTeamSubmission(context.Background(), "alice", "team1")
	if err != nil {
		t.Fatalf("GetTeamSubmission failed: %v", err)
	}
	if got.Title != "Final" {
		t.Errorf("stored title = %q, want Final", got.Title)
	}
}

func TestSubmitUnknownTeam(t *testing.T) {
	svc, _, _ := newSubmissionService(t)
	_, err := svc.Submit(context.Background(), "alice", "missing", SubmitRequest{Title: "X"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTeamSubmissionMembersOnly(t *testing.T) {
	svc, _, teamRepo := newSubmissionService(t)
	seedTeam(t, teamRepo, "team1", "ev1", "alice", "bob")

	if _, err := svc.Submit(context.Background(), "alice", "team1", SubmitRequest{Title: "Project X"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// A regular member can read it.
	if _, err := svc.GetTeamSubmission(context.Background(), "bob", "team1"); err != nil {
		t.Fatalf("member read failed: %v", err)
	}
	// An outsider cannot.
	_, err := svc.GetTeamSubmission(context.Background(), "mallory", "team1")
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
}
