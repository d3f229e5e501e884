package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type SocialService struct {
	repo SocialRepository
}

func NewSocialService(repo SocialRepository) *SocialService {
	return &SocialService{repo: repo}
}

// GetSettings returns stored settings, or the defaults for users who never
// saved any.
func (s *SocialService) GetSettings(ctx context.Context, userID uuid.UUID) (*SocialSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultSocialSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *SocialService) UpdateSettings(ctx context.Context, userID uuid.UUID, settings SocialSettings) (*SocialSettings, error) {
	settings.UserID = userID
	return s.repo.UpsertSettings(ctx, &settings)
}

func (s *SocialService) Stats(ctx context.Context, userID uuid.UUID) (*SocialStats, error) {
	return s.repo.GetStats(ctx, userID)
}

func (s *SocialService) SetPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.UpsertPushToken(ctx, userID, token)
}
