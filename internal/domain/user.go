package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserProfile is the slice of an account this service keeps locally.
// The identity provider owns the canonical account record; we mirror the
// fields needed for feeds, participant lists and connection listings.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	// EnsureUser inserts the profile mirror if missing, updating the name
	// if the upstream identity changed it.
	EnsureUser(ctx context.Context, id uuid.UUID, name string, avatarURL *string) (*UserProfile, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
}
