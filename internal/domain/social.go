package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SocialSettings is per-user discoverability configuration.
type SocialSettings struct {
	UserID              uuid.UUID `json:"user_id"`
	Discoverable        bool      `json:"discoverable"`
	AllowFriendRequests bool      `json:"allow_friend_requests"`
	AllowFamilyRequests bool      `json:"allow_family_requests"`
	ShowActivity        bool      `json:"show_activity"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultSocialSettings is what a user gets before ever saving settings.
func DefaultSocialSettings(userID uuid.UUID) *SocialSettings {
	return &SocialSettings{
		UserID:              userID,
		Discoverable:        true,
		AllowFriendRequests: true,
		AllowFamilyRequests: true,
		ShowActivity:        true,
	}
}

// SocialStats are aggregate counts feeding the profile screen.
type SocialStats struct {
	Friends                 int `json:"friends"`
	Family                  int `json:"family"`
	PendingIncoming         int `json:"pending_incoming"`
	PendingOutgoing         int `json:"pending_outgoing"`
	Activities              int `json:"activities"`
	RecommendationsSent     int `json:"recommendations_sent"`
	RecommendationsReceived int `json:"recommendations_received"`
	SessionsCreated         int `json:"sessions_created"`
	VotesCast               int `json:"votes_cast"`
}

type SocialRepository interface {
	// GetSettings returns ErrNotFound when the user never saved settings.
	GetSettings(ctx context.Context, userID uuid.UUID) (*SocialSettings, error)
	UpsertSettings(ctx context.Context, settings *SocialSettings) (*SocialSettings, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*SocialStats, error)
	UpsertPushToken(ctx context.Context, userID uuid.UUID, token string) error
	GetPushTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
}
