package service

import (
	"context"
	"errors"
	"testing"

	"hackportal/internal/common"
	"hackportal/internal/domain/model"
)

func TestUpdateProfilePatchesOnlyGivenFields(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewProfileService(userRepo)
	ctx := context.Background()

	if err := userRepo.CreateProfile(ctx, nil, &model.Profile{
		ID: "p1", UserID: "alice", Role: model.RoleParticipant,
		College: strPtr("Old College"), Skills: strPtr("go"),
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	year := 3
	updated, err := svc.UpdateProfile(ctx, "alice", UpdateProfileRequest{
		College: strPtr("New College"), Year: &year,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.College == nil || *updated.College != "New College" {
		t.Errorf("college = %v, want New College", updated.College)
	}
	if updated.Year == nil || *updated.Year != 3 {
		t.Errorf("year = %v, want 3", updated.Year)
	}
	if updated.Skills == nil || *updated.Skills != "go" {
		t.Errorf("untouched field changed: %v", updated.Skills)
	}
	if updated.Role != model.RoleParticipant {
		t.Errorf("role changed through a profile edit: %q", updated.Role)
	}
}

func TestGetProfileMissing(t *testing.T) {
	svc := NewProfileService(newFakeUserRepo())
	_, err := svc.GetProfile(context.Background(), "nobody")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
