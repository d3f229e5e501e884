package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ConnectionType string

const (
	ConnectionTypeFriend ConnectionType = "friend"
	ConnectionTypeFamily ConnectionType = "family"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusBlocked  ConnectionStatus = "blocked"
)

// RelationState classifies a pair relationship from one user's perspective.
type RelationState string

const (
	RelationNone            RelationState = "none"
	RelationPendingSent     RelationState = "pending_sent"
	RelationPendingReceived RelationState = "pending_received"
	RelationConnected       RelationState = "connected"
	RelationBlocked         RelationState = "blocked"
)

type Connection struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester_id"`
	ReceiverID  uuid.UUID        `json:"receiver_id"`
	Type        ConnectionType   `json:"type"`
	Status      ConnectionStatus `json:"status"`
	Notes       *string          `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Peer is the other side of the pair, joined for API responses.
	Peer *UserProfile `json:"peer,omitempty"`
}

type CreateConnectionParams struct {
	RequesterID uuid.UUID
	ReceiverID  uuid.UUID
	Type        ConnectionType
	Notes       *string
}

type ConnectionRepository interface {
	CreateConnection(ctx context.Context, params CreateConnectionParams) (*Connection, error)
	GetConnectionByID(ctx context.Context, connectionID uuid.UUID) (*Connection, error)
	// GetConnectionBetween looks up the single row for an unordered pair,
	// regardless of which side initiated. Returns ErrNotFound when absent.
	GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*Connection, error)
	UpdateConnectionStatus(ctx context.Context, connectionID uuid.UUID, status ConnectionStatus) (*Connection, error)
	DeleteConnection(ctx context.Context, connectionID uuid.UUID) error
	// GetConnections returns rows where userID is on either side, with Peer
	// populated from the opposite side.
	GetConnections(ctx context.Context, userID uuid.UUID, status ConnectionStatus, limit, offset int) ([]*Connection, error)
	// GetIncomingRequests returns pending rows where userID is the receiver.
	GetIncomingRequests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Connection, error)
}
