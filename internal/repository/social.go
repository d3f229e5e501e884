package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yumzoom/backend/internal/domain"
)

// GetSettings returns ErrNotFound when the user never saved settings.
func (r *PostgresRepository) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.SocialSettings, error) {
	query := `
		SELECT user_id, discoverable, allow_friend_requests, allow_family_requests, show_activity, updated_at
		FROM social_settings WHERE user_id = $1
	`
	row := r.db.QueryRow(ctx, query, userID)

	var s domain.SocialSettings
	err := row.Scan(&s.UserID, &s.Discoverable, &s.AllowFriendRequests, &s.AllowFamilyRequests, &s.ShowActivity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSettings inserts or replaces the user's settings row
func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings *domain.SocialSettings) (*domain.SocialSettings, error) {
	query := `
		INSERT INTO social_settings (user_id, discoverable, allow_friend_requests, allow_family_requests, show_activity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			discoverable = EXCLUDED.discoverable,
			allow_friend_requests = EXCLUDED.allow_friend_requests,
			allow_family_requests = EXCLUDED.allow_family_requests,
			show_activity = EXCLUDED.show_activity,
			updated_at = NOW()
		RETURNING user_id, discoverable, allow_friend_requests, allow_family_requests, show_activity, updated_at
	`
	row := r.db.QueryRow(ctx, query,
		settings.UserID,
		settings.Discoverable,
		settings.AllowFriendRequests,
		settings.AllowFamilyRequests,
		settings.ShowActivity,
	)

	var s domain.SocialSettings
	err := row.Scan(&s.UserID, &s.Discoverable, &s.AllowFriendRequests, &s.AllowFamilyRequests, &s.ShowActivity, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStats aggregates the counts feeding the profile screen.
func (r *PostgresRepository) GetStats(ctx context.Context, userID uuid.UUID) (*domain.SocialStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM connections WHERE (requester_id = $1 OR receiver_id = $1) AND status = 'accepted' AND type = 'friend'),
			(SELECT COUNT(*) FROM connections WHERE (requester_id = $1 OR receiver_id = $1) AND status = 'accepted' AND type = 'family'),
			(SELECT COUNT(*) FROM connections WHERE receiver_id = $1 AND status = 'pending'),
			(SELECT COUNT(*) FROM connections WHERE requester_id = $1 AND status = 'pending'),
			(SELECT COUNT(*) FROM activities WHERE user_id = $1),
			(SELECT COUNT(*) FROM recommendations WHERE sender_id = $1),
			(SELECT COUNT(*) FROM recommendations WHERE recipient_id = $1),
			(SELECT COUNT(*) FROM collab_sessions WHERE creator_id = $1),
			(SELECT COUNT(*) FROM collab_votes WHERE voter_id = $1)
	`
	row := r.db.QueryRow(ctx, query, userID)

	var stats domain.SocialStats
	err := row.Scan(
		&stats.Friends,
		&stats.Family,
		&stats.PendingIncoming,
		&stats.PendingOutgoing,
		&stats.Activities,
		&stats.RecommendationsSent,
		&stats.RecommendationsReceived,
		&stats.SessionsCreated,
		&stats.VotesCast,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpsertPushToken registers a device token for push notifications
func (r *PostgresRepository) UpsertPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO push_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, token)
	return err
}

// GetPushTokens returns all device tokens registered for a user
func (r *PostgresRepository) GetPushTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT token FROM push_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
