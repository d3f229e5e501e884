package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yumzoom/backend/internal/domain"
)

const sessionColumns = `id, creator_id, title, description, type, status, deadline, multiple_votes, require_unanimous, created_at, updated_at`
const voteColumns = `id, session_id, option_id, voter_id, weight, comment, created_at, updated_at`

// CreateSession inserts an active session
func (r *PostgresRepository) CreateSession(ctx context.Context, params domain.CreateSessionParams) (*domain.CollabSession, error) {
	query := `
		INSERT INTO collab_sessions (creator_id, title, description, type, status, deadline, multiple_votes, require_unanimous)
		VALUES ($1, $2, $3, $4, 'active', $5, $6, $7)
		RETURNING ` + sessionColumns + `
	`
	row := r.db.QueryRow(ctx, query,
		params.CreatorID,
		params.Title,
		params.Description,
		params.Type,
		params.Deadline,
		params.Rules.MultipleVotes,
		params.Rules.RequireUnanimous,
	)
	return scanSession(row)
}

// GetSessionByID retrieves a session by ID
func (r *PostgresRepository) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*domain.CollabSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM collab_sessions WHERE id = $1`
	row := r.db.QueryRow(ctx, query, sessionID)
	return scanSession(row)
}

// UpdateSessionStatus transitions a session's status
func (r *PostgresRepository) UpdateSessionStatus(ctx context.Context, sessionID uuid.UUID, status domain.SessionStatus) (*domain.CollabSession, error) {
	query := `
		UPDATE collab_sessions SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns + `
	`
	row := r.db.QueryRow(ctx, query, sessionID, status)
	return scanSession(row)
}

// ListSessionsForUser returns sessions the user created or voted in.
func (r *PostgresRepository) ListSessionsForUser(ctx context.Context, userID uuid.UUID, status *domain.SessionStatus, limit, offset int) ([]*domain.CollabSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM collab_sessions
		WHERE (creator_id = $1 OR id IN (SELECT session_id FROM collab_votes WHERE voter_id = $1))
			AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListExpiredActiveSessions returns active sessions whose deadline passed.
func (r *PostgresRepository) ListExpiredActiveSessions(ctx context.Context, now time.Time) ([]*domain.CollabSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM collab_sessions
		WHERE status = 'active' AND deadline IS NOT NULL AND deadline <= $1
	`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// AddOption appends a candidate option to a session
func (r *PostgresRepository) AddOption(ctx context.Context, params domain.AddOptionParams) (*domain.CollabOption, error) {
	query := `
		INSERT INTO collab_options (session_id, restaurant_id, suggested_by, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, restaurant_id, suggested_by, reason, created_at
	`
	row := r.db.QueryRow(ctx, query, params.SessionID, params.RestaurantID, params.SuggestedBy, params.Reason)
	return scanOption(row)
}

// GetOptionByID retrieves an option by ID
func (r *PostgresRepository) GetOptionByID(ctx context.Context, optionID uuid.UUID) (*domain.CollabOption, error) {
	query := `SELECT id, session_id, restaurant_id, suggested_by, reason, created_at FROM collab_options WHERE id = $1`
	row := r.db.QueryRow(ctx, query, optionID)
	return scanOption(row)
}

// GetOptions returns a session's options in creation order.
func (r *PostgresRepository) GetOptions(ctx context.Context, sessionID uuid.UUID) ([]*domain.CollabOption, error) {
	query := `
		SELECT id, session_id, restaurant_id, suggested_by, reason, created_at
		FROM collab_options
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []*domain.CollabOption
	for rows.Next() {
		var o domain.CollabOption
		if err := rows.Scan(&o.ID, &o.SessionID, &o.RestaurantID, &o.SuggestedBy, &o.Reason, &o.CreatedAt); err != nil {
			return nil, err
		}
		options = append(options, &o)
	}
	return options, rows.Err()
}

// OptionExists checks whether a restaurant is already proposed in a session
func (r *PostgresRepository) OptionExists(ctx context.Context, sessionID, restaurantID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM collab_options WHERE session_id = $1 AND restaurant_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, sessionID, restaurantID).Scan(&exists)
	return exists, err
}

// UpsertVote records or replaces a vote. A unique index on
// (session_id, option_id, voter_id) backs the per-option upsert; under
// single-choice rules any prior vote by the voter on another option is
// removed in the same transaction, so re-voting replaces rather than adds.
func (r *PostgresRepository) UpsertVote(ctx context.Context, params domain.CastVoteParams) (*domain.CollabVote, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if params.SingleChoice {
		_, err = tx.Exec(ctx,
			`DELETE FROM collab_votes WHERE session_id = $1 AND voter_id = $2 AND option_id <> $3`,
			params.SessionID, params.VoterID, params.OptionID,
		)
		if err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO collab_votes (session_id, option_id, voter_id, weight, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, option_id, voter_id)
		DO UPDATE SET weight = EXCLUDED.weight, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING ` + voteColumns + `
	`
	row := tx.QueryRow(ctx, query, params.SessionID, params.OptionID, params.VoterID, params.Weight, params.Comment)
	vote, err := scanVote(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return vote, nil
}

// GetVotes returns all votes in a session
func (r *PostgresRepository) GetVotes(ctx context.Context, sessionID uuid.UUID) ([]*domain.CollabVote, error) {
	query := `SELECT ` + voteColumns + ` FROM collab_votes WHERE session_id = $1`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVotes(rows)
}

// GetUserVotes returns one voter's votes in a session
func (r *PostgresRepository) GetUserVotes(ctx context.Context, sessionID, voterID uuid.UUID) ([]*domain.CollabVote, error) {
	query := `SELECT ` + voteColumns + ` FROM collab_votes WHERE session_id = $1 AND voter_id = $2`
	rows, err := r.db.Query(ctx, query, sessionID, voterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVotes(rows)
}

// GetParticipants derives the participant list: creator plus anyone who
// voted or proposed an option.
func (r *PostgresRepository) GetParticipants(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error) {
	query := `
		SELECT u.id, u.name,
			u.id = s.creator_id AS is_creator,
			EXISTS(SELECT 1 FROM collab_votes v WHERE v.session_id = s.id AND v.voter_id = u.id) AS has_voted
		FROM collab_sessions s
		JOIN users u ON u.id = s.creator_id
			OR u.id IN (SELECT voter_id FROM collab_votes WHERE session_id = s.id)
			OR u.id IN (SELECT suggested_by FROM collab_options WHERE session_id = s.id)
		WHERE s.id = $1
		ORDER BY is_creator DESC, u.name ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.IsCreator, &p.HasVoted); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func collectSessions(rows pgx.Rows) ([]*domain.CollabSession, error) {
	var sessions []*domain.CollabSession
	for rows.Next() {
		var s domain.CollabSession
		err := rows.Scan(
			&s.ID, &s.CreatorID, &s.Title, &s.Description, &s.Type, &s.Status, &s.Deadline,
			&s.Rules.MultipleVotes, &s.Rules.RequireUnanimous, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func collectVotes(rows pgx.Rows) ([]*domain.CollabVote, error) {
	var votes []*domain.CollabVote
	for rows.Next() {
		var v domain.CollabVote
		if err := rows.Scan(&v.ID, &v.SessionID, &v.OptionID, &v.VoterID, &v.Weight, &v.Comment, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, &v)
	}
	return votes, rows.Err()
}

func scanSession(row pgx.Row) (*domain.CollabSession, error) {
	var s domain.CollabSession
	err := row.Scan(
		&s.ID, &s.CreatorID, &s.Title, &s.Description, &s.Type, &s.Status, &s.Deadline,
		&s.Rules.MultipleVotes, &s.Rules.RequireUnanimous, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanVote(row pgx.Row) (*domain.CollabVote, error) {
	var v domain.CollabVote
	err := row.Scan(&v.ID, &v.SessionID, &v.OptionID, &v.VoterID, &v.Weight, &v.Comment, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func scanOption(row pgx.Row) (*domain.CollabOption, error) {
	var o domain.CollabOption
	err := row.Scan(&o.ID, &o.SessionID, &o.RestaurantID, &o.SuggestedBy, &o.Reason, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
