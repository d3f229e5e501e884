package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestGetSettingsReturnsDefaultsWhenUnset(t *testing.T) {
	service := NewSocialService(newFakeSocialRepo())
	userID := uuid.New()

	settings, err := service.GetSettings(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if settings.UserID != userID {
		t.Fatalf("user_id = %s, want %s", settings.UserID, userID)
	}
	if !settings.Discoverable || !settings.AllowFriendRequests || !settings.AllowFamilyRequests || !settings.ShowActivity {
		t.Fatalf("defaults should be permissive, got %+v", settings)
	}
}

func TestUpdateSettingsPersistsAndPinsUser(t *testing.T) {
	service := NewSocialService(newFakeSocialRepo())
	userID := uuid.New()
	ctx := context.Background()

	// The payload cannot write another user's settings.
	updated, err := service.UpdateSettings(ctx, userID, SocialSettings{
		UserID:       uuid.New(),
		Discoverable: false,
		ShowActivity: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.UserID != userID {
		t.Fatalf("user_id = %s, want caller %s", updated.UserID, userID)
	}

	settings, err := service.GetSettings(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Discoverable {
		t.Fatal("discoverable = true, want stored false")
	}
	if !settings.ShowActivity {
		t.Fatal("show_activity lost on round trip")
	}
}
