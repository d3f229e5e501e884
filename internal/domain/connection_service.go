package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type ConnectionService struct {
	repo     ConnectionRepository
	social   SocialRepository
	activity *ActivityService
}

func NewConnectionService(repo ConnectionRepository, social SocialRepository, activity *ActivityService) *ConnectionService {
	return &ConnectionService{
		repo:     repo,
		social:   social,
		activity: activity,
	}
}

// SendRequest creates a pending connection from requester to target. At most
// one row may exist per unordered pair: a prior row in any status rejects the
// request rather than silently duplicating it.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID, targetID uuid.UUID, ctype ConnectionType, notes *string) (*Connection, error) {
	if requesterID == targetID {
		return nil, ErrSelfConnection
	}

	settings, err := s.social.GetSettings(ctx, targetID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if settings != nil {
		if !settings.Discoverable {
			return nil, ErrRequestsDisabled
		}
		if ctype == ConnectionTypeFriend && !settings.AllowFriendRequests {
			return nil, ErrRequestsDisabled
		}
		if ctype == ConnectionTypeFamily && !settings.AllowFamilyRequests {
			return nil, ErrRequestsDisabled
		}
	}

	existing, err := s.repo.GetConnectionBetween(ctx, requesterID, targetID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == ConnectionStatusBlocked {
			return nil, ErrConnectionBlocked
		}
		return nil, ErrDuplicateConnection
	}

	return s.repo.CreateConnection(ctx, CreateConnectionParams{
		RequesterID: requesterID,
		ReceiverID:  targetID,
		Type:        ctype,
		Notes:       notes,
	})
}

// Respond accepts or declines a pending request. Only the receiver may
// respond. Declining deletes the row so the pair returns to "none".
func (s *ConnectionService) Respond(ctx context.Context, userID, connectionID uuid.UUID, accept bool) (*Connection, error) {
	conn, err := s.repo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.ReceiverID != userID {
		return nil, ErrForbidden
	}
	if conn.Status != ConnectionStatusPending {
		return nil, ErrNotPending
	}

	if !accept {
		if err := s.repo.DeleteConnection(ctx, connectionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	updated, err := s.repo.UpdateConnectionStatus(ctx, connectionID, ConnectionStatusAccepted)
	if err != nil {
		return nil, err
	}

	s.activity.RecordSystem(ctx, userID, ActivityConnectionAccepted, Map{
		"connection_id": connectionID.String(),
		"peer_id":       conn.RequesterID.String(),
		"type":          string(conn.Type),
	})

	return updated, nil
}

// Block marks the pair blocked. Either party may block.
func (s *ConnectionService) Block(ctx context.Context, userID, connectionID uuid.UUID) (*Connection, error) {
	conn, err := s.repo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.RequesterID != userID && conn.ReceiverID != userID {
		return nil, ErrForbidden
	}
	return s.repo.UpdateConnectionStatus(ctx, connectionID, ConnectionStatusBlocked)
}

// Remove hard-deletes the connection. Either party may remove.
func (s *ConnectionService) Remove(ctx context.Context, userID, connectionID uuid.UUID) error {
	conn, err := s.repo.GetConnectionByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.RequesterID != userID && conn.ReceiverID != userID {
		return ErrForbidden
	}
	return s.repo.DeleteConnection(ctx, connectionID)
}

// Status classifies the relationship with otherID from userID's perspective.
func (s *ConnectionService) Status(ctx context.Context, userID, otherID uuid.UUID) (RelationState, error) {
	conn, err := s.repo.GetConnectionBetween(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RelationNone, nil
		}
		return RelationNone, err
	}

	switch conn.Status {
	case ConnectionStatusBlocked:
		return RelationBlocked, nil
	case ConnectionStatusAccepted:
		return RelationConnected, nil
	case ConnectionStatusPending:
		if conn.RequesterID == userID {
			return RelationPendingSent, nil
		}
		return RelationPendingReceived, nil
	}
	return RelationNone, nil
}

func (s *ConnectionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Connection, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetConnections(ctx, userID, ConnectionStatusAccepted, limit, offset)
}

func (s *ConnectionService) PendingRequests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Connection, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetIncomingRequests(ctx, userID, limit, offset)
}

// IsConnected reports whether the pair has an accepted connection.
func (s *ConnectionService) IsConnected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	conn, err := s.repo.GetConnectionBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return conn.Status == ConnectionStatusAccepted, nil
}
