package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yumzoom/backend/internal/domain"
)

// InsertActivity appends one row to the activity log.
func (r *PostgresRepository) InsertActivity(ctx context.Context, params domain.CreateActivityParams) (*domain.Activity, error) {
	query := `
		INSERT INTO activities (user_id, type, payload, restaurant_id, menu_item_id, rating, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, type, payload, restaurant_id, menu_item_id, rating, is_public, created_at
	`
	row := r.db.QueryRow(ctx, query,
		params.UserID,
		params.Type,
		params.Payload,
		params.RestaurantID,
		params.MenuItemID,
		params.Rating,
		params.IsPublic,
	)

	var a domain.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Payload, &a.RestaurantID, &a.MenuItemID, &a.Rating, &a.IsPublic, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetUserActivities returns one user's own activities, newest first.
func (r *PostgresRepository) GetUserActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Activity, error) {
	query := `
		SELECT a.id, a.user_id, a.type, a.payload, a.restaurant_id, a.menu_item_id, a.rating, a.is_public, a.created_at,
			u.id, u.name, u.avatar_url, u.created_at
		FROM activities a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

// GetFeedActivities returns public activities from accepted connections
// whose settings allow showing activity, plus the user's own.
func (r *PostgresRepository) GetFeedActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Activity, error) {
	query := `
		SELECT a.id, a.user_id, a.type, a.payload, a.restaurant_id, a.menu_item_id, a.rating, a.is_public, a.created_at,
			u.id, u.name, u.avatar_url, u.created_at
		FROM activities a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN social_settings ss ON ss.user_id = a.user_id
		WHERE a.user_id = $1
			OR (
				a.is_public = TRUE
				AND COALESCE(ss.show_activity, TRUE)
				AND a.user_id IN (
					SELECT CASE WHEN c.requester_id = $1 THEN c.receiver_id ELSE c.requester_id END
					FROM connections c
					WHERE (c.requester_id = $1 OR c.receiver_id = $1) AND c.status = 'accepted'
				)
			)
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	for rows.Next() {
		var a domain.Activity
		var actor domain.UserProfile
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Type, &a.Payload, &a.RestaurantID, &a.MenuItemID, &a.Rating, &a.IsPublic, &a.CreatedAt,
			&actor.ID, &actor.Name, &actor.AvatarURL, &actor.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		a.Actor = &actor
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
