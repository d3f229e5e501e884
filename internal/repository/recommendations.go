package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yumzoom/backend/internal/domain"
)

const recommendationColumns = `id, sender_id, recipient_id, restaurant_id, message, occasion, is_read, is_accepted, created_at`

// InsertRecommendation creates an unread recommendation
func (r *PostgresRepository) InsertRecommendation(ctx context.Context, params domain.CreateRecommendationParams) (*domain.Recommendation, error) {
	query := `
		INSERT INTO recommendations (sender_id, recipient_id, restaurant_id, message, occasion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + recommendationColumns + `
	`
	row := r.db.QueryRow(ctx, query, params.SenderID, params.RecipientID, params.RestaurantID, params.Message, params.Occasion)
	return scanRecommendation(row)
}

// GetRecommendationByID retrieves a recommendation by ID
func (r *PostgresRepository) GetRecommendationByID(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	return scanRecommendation(row)
}

// MarkRecommendationRead sets is_read
func (r *PostgresRepository) MarkRecommendationRead(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	query := `
		UPDATE recommendations SET is_read = TRUE
		WHERE id = $1
		RETURNING ` + recommendationColumns + `
	`
	row := r.db.QueryRow(ctx, query, id)
	return scanRecommendation(row)
}

// MarkRecommendationAccepted sets is_accepted and is_read together
func (r *PostgresRepository) MarkRecommendationAccepted(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	query := `
		UPDATE recommendations SET is_accepted = TRUE, is_read = TRUE
		WHERE id = $1
		RETURNING ` + recommendationColumns + `
	`
	row := r.db.QueryRow(ctx, query, id)
	return scanRecommendation(row)
}

// GetInbox returns recommendations received by a user, newest first, with
// the sender profile joined.
func (r *PostgresRepository) GetInbox(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Recommendation, error) {
	query := `
		SELECT rec.id, rec.sender_id, rec.recipient_id, rec.restaurant_id, rec.message, rec.occasion, rec.is_read, rec.is_accepted, rec.created_at,
			u.id, u.name, u.avatar_url, u.created_at
		FROM recommendations rec
		JOIN users u ON u.id = rec.sender_id
		WHERE rec.recipient_id = $1
		ORDER BY rec.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		var sender domain.UserProfile
		err := rows.Scan(
			&rec.ID, &rec.SenderID, &rec.RecipientID, &rec.RestaurantID, &rec.Message, &rec.Occasion, &rec.IsRead, &rec.IsAccepted, &rec.CreatedAt,
			&sender.ID, &sender.Name, &sender.AvatarURL, &sender.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Sender = &sender
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// GetOutbox returns recommendations sent by a user, newest first.
func (r *PostgresRepository) GetOutbox(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]*domain.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, senderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		err := rows.Scan(&rec.ID, &rec.SenderID, &rec.RecipientID, &rec.RestaurantID, &rec.Message, &rec.Occasion, &rec.IsRead, &rec.IsAccepted, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func scanRecommendation(row pgx.Row) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := row.Scan(&rec.ID, &rec.SenderID, &rec.RecipientID, &rec.RestaurantID, &rec.Message, &rec.Occasion, &rec.IsRead, &rec.IsAccepted, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
