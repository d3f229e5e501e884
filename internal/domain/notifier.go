package domain

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PushClient sends one push message to one device token.
type PushClient interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Notifier fans a push notification out to all of a user's registered
// devices. A nil push client disables push silently.
type Notifier struct {
	tokens SocialRepository
	push   PushClient
	logger *zap.Logger
}

func NewNotifier(tokens SocialRepository, push PushClient, logger *zap.Logger) *Notifier {
	return &Notifier{
		tokens: tokens,
		push:   push,
		logger: logger,
	}
}

// Notify is best-effort: lookup or send failures are logged, never returned,
// so the triggering operation does not fail on a push problem.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if n == nil || n.push == nil {
		return
	}

	tokens, err := n.tokens.GetPushTokens(ctx, userID)
	if err != nil {
		n.logger.Warn("failed to get push tokens", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}

	for _, token := range tokens {
		if token == "" {
			continue
		}
		go func(t string) {
			_ = n.push.Send(context.Background(), t, title, body, data)
		}(token)
	}
}
