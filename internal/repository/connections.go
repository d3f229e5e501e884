package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yumzoom/backend/internal/domain"
)

const connectionColumns = `c.id, c.requester_id, c.receiver_id, c.type, c.status, c.notes, c.created_at, c.updated_at`

// CreateConnection inserts a pending connection request. A unique index on
// (least(requester, receiver), greatest(requester, receiver)) backs the
// one-row-per-pair invariant at the storage level.
func (r *PostgresRepository) CreateConnection(ctx context.Context, params domain.CreateConnectionParams) (*domain.Connection, error) {
	query := `
		INSERT INTO connections (requester_id, receiver_id, type, status, notes)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING id, requester_id, receiver_id, type, status, notes, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, params.RequesterID, params.ReceiverID, params.Type, params.Notes)
	return scanConnection(row)
}

// GetConnectionByID retrieves a connection by ID
func (r *PostgresRepository) GetConnectionByID(ctx context.Context, connectionID uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, requester_id, receiver_id, type, status, notes, created_at, updated_at
		FROM connections WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, connectionID)
	return scanConnection(row)
}

// GetConnectionBetween retrieves the single row for an unordered pair.
func (r *PostgresRepository) GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	query := `
		SELECT id, requester_id, receiver_id, type, status, notes, created_at, updated_at
		FROM connections
		WHERE (requester_id = $1 AND receiver_id = $2) OR (requester_id = $2 AND receiver_id = $1)
	`
	row := r.db.QueryRow(ctx, query, a, b)
	return scanConnection(row)
}

// UpdateConnectionStatus updates the status of a connection
func (r *PostgresRepository) UpdateConnectionStatus(ctx context.Context, connectionID uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error) {
	query := `
		UPDATE connections SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, requester_id, receiver_id, type, status, notes, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, connectionID, status)
	return scanConnection(row)
}

// DeleteConnection hard-deletes a connection
func (r *PostgresRepository) DeleteConnection(ctx context.Context, connectionID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, connectionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetConnections returns connections where userID is on either side, with
// the opposite side's profile joined as Peer.
func (r *PostgresRepository) GetConnections(ctx context.Context, userID uuid.UUID, status domain.ConnectionStatus, limit, offset int) ([]*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `,
			u.id, u.name, u.avatar_url, u.created_at
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.requester_id = $1 THEN c.receiver_id ELSE c.requester_id END
		WHERE (c.requester_id = $1 OR c.receiver_id = $1) AND c.status = $2
		ORDER BY c.updated_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnectionsWithPeer(rows)
}

// GetIncomingRequests returns pending requests addressed to userID.
func (r *PostgresRepository) GetIncomingRequests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `,
			u.id, u.name, u.avatar_url, u.created_at
		FROM connections c
		JOIN users u ON u.id = c.requester_id
		WHERE c.receiver_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnectionsWithPeer(rows)
}

func collectConnectionsWithPeer(rows pgx.Rows) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	for rows.Next() {
		var c domain.Connection
		var peer domain.UserProfile
		err := rows.Scan(
			&c.ID, &c.RequesterID, &c.ReceiverID, &c.Type, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
			&peer.ID, &peer.Name, &peer.AvatarURL, &peer.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		c.Peer = &peer
		conns = append(conns, &c)
	}
	return conns, rows.Err()
}

func scanConnection(row pgx.Row) (*domain.Connection, error) {
	var c domain.Connection
	err := row.Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Type, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
