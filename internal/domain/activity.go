package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Map alias for JSONB payloads
type Map map[string]interface{}

type ActivityType string

const (
	ActivityVisited                ActivityType = "visited"
	ActivityReviewed               ActivityType = "reviewed"
	ActivityRated                  ActivityType = "rated"
	ActivityFavorited              ActivityType = "favorited"
	ActivityConnectionAccepted     ActivityType = "connection_accepted"
	ActivityRecommendationSent     ActivityType = "recommendation_sent"
	ActivityRecommendationAccepted ActivityType = "recommendation_accepted"
	ActivitySessionCreated         ActivityType = "session_created"
	ActivitySessionClosed          ActivityType = "session_closed"
	ActivityVoteCast               ActivityType = "vote_cast"
)

// Activity is an append-only record of a user action. Rows are never
// updated or deleted by normal flow.
type Activity struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	Type         ActivityType `json:"type"`
	Payload      Map          `json:"payload"`
	RestaurantID *uuid.UUID   `json:"restaurant_id,omitempty"`
	MenuItemID   *uuid.UUID   `json:"menu_item_id,omitempty"`
	Rating       *int         `json:"rating,omitempty"`
	IsPublic     bool         `json:"is_public"`
	CreatedAt    time.Time    `json:"created_at"`

	Actor *UserProfile `json:"actor,omitempty"`
}

// FeedItem is an activity rendered for the social feed.
type FeedItem struct {
	Activity *Activity `json:"activity"`
	Sentence string    `json:"sentence"`
	Icon     string    `json:"icon"`
}

type CreateActivityParams struct {
	UserID       uuid.UUID
	Type         ActivityType
	Payload      Map
	RestaurantID *uuid.UUID
	MenuItemID   *uuid.UUID
	Rating       *int
	IsPublic     bool
}

type ActivityRepository interface {
	InsertActivity(ctx context.Context, params CreateActivityParams) (*Activity, error)
	GetUserActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, error)
	// GetFeedActivities returns public activities of userID's accepted
	// connections (honoring each actor's show_activity setting) plus the
	// user's own, newest first, with Actor populated.
	GetFeedActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, error)
}
