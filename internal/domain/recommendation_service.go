package domain

import (
	"context"

	"github.com/google/uuid"
)

type RecommendationService struct {
	repo     RecommendationRepository
	conns    *ConnectionService
	activity *ActivityService
	notifier *Notifier
}

func NewRecommendationService(repo RecommendationRepository, conns *ConnectionService, activity *ActivityService, notifier *Notifier) *RecommendationService {
	return &RecommendationService{
		repo:     repo,
		conns:    conns,
		activity: activity,
		notifier: notifier,
	}
}

// Send creates an unread recommendation. Sender and recipient must have an
// accepted connection.
func (s *RecommendationService) Send(ctx context.Context, params CreateRecommendationParams) (*Recommendation, error) {
	if params.SenderID == params.RecipientID {
		return nil, ErrSelfConnection
	}

	connected, err := s.conns.IsConnected(ctx, params.SenderID, params.RecipientID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	rec, err := s.repo.InsertRecommendation(ctx, params)
	if err != nil {
		return nil, err
	}

	s.activity.RecordSystem(ctx, params.SenderID, ActivityRecommendationSent, Map{
		"recommendation_id": rec.ID.String(),
		"restaurant_id":     params.RestaurantID.String(),
	})

	s.notifier.Notify(ctx, params.RecipientID,
		"New restaurant suggestion",
		"A family member sent you a restaurant recommendation",
		map[string]string{
			"type":              "recommendation",
			"recommendation_id": rec.ID.String(),
		},
	)

	return rec, nil
}

// MarkRead flips is_read. Recipient only; idempotent.
func (s *RecommendationService) MarkRead(ctx context.Context, userID, recID uuid.UUID) (*Recommendation, error) {
	rec, err := s.repo.GetRecommendationByID(ctx, recID)
	if err != nil {
		return nil, err
	}
	if rec.RecipientID != userID {
		return nil, ErrForbidden
	}
	if rec.IsRead {
		return rec, nil
	}
	return s.repo.MarkRecommendationRead(ctx, recID)
}

// Accept flips is_accepted and is_read together. Recipient only; idempotent.
func (s *RecommendationService) Accept(ctx context.Context, userID, recID uuid.UUID) (*Recommendation, error) {
	rec, err := s.repo.GetRecommendationByID(ctx, recID)
	if err != nil {
		return nil, err
	}
	if rec.RecipientID != userID {
		return nil, ErrForbidden
	}
	if rec.IsAccepted {
		return rec, nil
	}

	updated, err := s.repo.MarkRecommendationAccepted(ctx, recID)
	if err != nil {
		return nil, err
	}

	s.activity.RecordSystem(ctx, userID, ActivityRecommendationAccepted, Map{
		"recommendation_id": recID.String(),
		"restaurant_id":     rec.RestaurantID.String(),
	})

	return updated, nil
}

func (s *RecommendationService) Inbox(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetInbox(ctx, userID, limit, offset)
}

func (s *RecommendationService) Outbox(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetOutbox(ctx, userID, limit, offset)
}
