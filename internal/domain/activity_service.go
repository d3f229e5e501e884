package domain

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityService struct {
	repo   ActivityRepository
	logger *zap.Logger
}

func NewActivityService(repo ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger,
	}
}

// Record appends a user-initiated activity. The log is append-only; there is
// no update or delete path.
func (s *ActivityService) Record(ctx context.Context, params CreateActivityParams) (*Activity, error) {
	if params.Payload == nil {
		params.Payload = Map{}
	}
	return s.repo.InsertActivity(ctx, params)
}

// RecordSystem appends an activity generated by another service (connection
// accepted, vote cast, ...). Failures are logged and swallowed so the
// triggering operation is never failed by its side effect.
func (s *ActivityService) RecordSystem(ctx context.Context, userID uuid.UUID, atype ActivityType, payload Map) {
	_, err := s.repo.InsertActivity(ctx, CreateActivityParams{
		UserID:   userID,
		Type:     atype,
		Payload:  payload,
		IsPublic: true,
	})
	if err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("type", string(atype)),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// Feed returns the rendered social feed for userID.
func (s *ActivityService) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = 20
	}
	activities, err := s.repo.GetFeedActivities(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(activities))
	for _, a := range activities {
		items = append(items, FormatActivity(a))
	}
	return items, nil
}

func (s *ActivityService) Mine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetUserActivities(ctx, userID, limit, offset)
}
