package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recommendation is one user suggesting a restaurant to another. Only the
// recipient may flip the read/accepted flags; accepting implies read.
type Recommendation struct {
	ID           uuid.UUID `json:"id"`
	SenderID     uuid.UUID `json:"sender_id"`
	RecipientID  uuid.UUID `json:"recipient_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Message      *string   `json:"message,omitempty"`
	Occasion     *string   `json:"occasion,omitempty"`
	IsRead       bool      `json:"is_read"`
	IsAccepted   bool      `json:"is_accepted"`
	CreatedAt    time.Time `json:"created_at"`

	Sender *UserProfile `json:"sender,omitempty"`
}

type CreateRecommendationParams struct {
	SenderID     uuid.UUID
	RecipientID  uuid.UUID
	RestaurantID uuid.UUID
	Message      *string
	Occasion     *string
}

type RecommendationRepository interface {
	InsertRecommendation(ctx context.Context, params CreateRecommendationParams) (*Recommendation, error)
	GetRecommendationByID(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	MarkRecommendationRead(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	// MarkRecommendationAccepted sets is_accepted and is_read together.
	MarkRecommendationAccepted(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	GetInbox(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*Recommendation, error)
	GetOutbox(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]*Recommendation, error)
}
