package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yumzoom/backend/internal/domain"
)

// PostgresRepository implements the domain repository interfaces using
// PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureUser inserts or refreshes the local profile mirror for an upstream
// identity.
func (r *PostgresRepository) EnsureUser(ctx context.Context, id uuid.UUID, name string, avatarURL *string) (*domain.UserProfile, error) {
	query := `
		INSERT INTO users (id, name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url)
		RETURNING id, name, avatar_url, created_at
	`
	row := r.db.QueryRow(ctx, query, id, name, avatarURL)
	return scanUser(row)
}

// GetUserByID retrieves a user profile by ID
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	query := `SELECT id, name, avatar_url, created_at FROM users WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.UserProfile, error) {
	var u domain.UserProfile
	err := row.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
