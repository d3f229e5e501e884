package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionEvent is the payload broadcast to WebSocket subscribers of a
// session.
type SessionEvent struct {
	Kind      string      `json:"kind"` // option_added, vote_cast, session_closed, session_cancelled
	SessionID uuid.UUID   `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
}

type CollabService struct {
	repo        CollabRepository
	conns       *ConnectionService
	activity    *ActivityService
	cache       TallyCache
	broadcaster SessionBroadcaster
	notifier    *Notifier
	maxWeight   int
	logger      *zap.Logger
}

func NewCollabService(
	repo CollabRepository,
	conns *ConnectionService,
	activity *ActivityService,
	cache TallyCache,
	broadcaster SessionBroadcaster,
	notifier *Notifier,
	maxWeight int,
	logger *zap.Logger,
) *CollabService {
	if maxWeight < 1 {
		maxWeight = 1
	}
	return &CollabService{
		repo:        repo,
		conns:       conns,
		activity:    activity,
		cache:       cache,
		broadcaster: broadcaster,
		notifier:    notifier,
		maxWeight:   maxWeight,
		logger:      logger,
	}
}

// Create opens a new active session owned by creatorID. A deadline, if set,
// must be in the future. Sessions may be created with zero options.
func (s *CollabService) Create(ctx context.Context, params CreateSessionParams) (*CollabSession, error) {
	if params.Deadline != nil && !params.Deadline.After(time.Now()) {
		return nil, errors.New("deadline must be in the future")
	}

	session, err := s.repo.CreateSession(ctx, params)
	if err != nil {
		return nil, err
	}

	s.activity.RecordSystem(ctx, params.CreatorID, ActivitySessionCreated, Map{
		"session_id": session.ID.String(),
		"title":      session.Title,
	})

	return session, nil
}

// AddOption appends a candidate restaurant. Allowed for the creator and for
// their accepted connections, only while the session is active. The same
// restaurant may appear at most once per session.
func (s *CollabService) AddOption(ctx context.Context, userID uuid.UUID, params AddOptionParams) (*CollabOption, error) {
	session, err := s.repo.GetSessionByID(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionStatusActive {
		return nil, ErrSessionNotActive
	}

	if err := s.checkParticipant(ctx, session, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.OptionExists(ctx, params.SessionID, params.RestaurantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateOption
	}

	params.SuggestedBy = userID
	option, err := s.repo.AddOption(ctx, params)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, session.ID)
	s.publish(session.ID, "option_added", option)

	return option, nil
}

// CastVote records or replaces the caller's vote. Under single-vote rules a
// second vote by the same voter replaces the first; under multiple_votes a
// voter holds one vote per option. Weight must be within [1, maxWeight].
func (s *CollabService) CastVote(ctx context.Context, voterID uuid.UUID, sessionID, optionID uuid.UUID, weight int, comment *string) (*CollabVote, error) {
	if weight == 0 {
		weight = 1
	}
	if weight < 1 || weight > s.maxWeight {
		return nil, ErrInvalidWeight
	}

	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionStatusActive {
		return nil, ErrSessionNotActive
	}
	if session.Deadline != nil && time.Now().After(*session.Deadline) {
		return nil, ErrDeadlinePassed
	}

	if err := s.checkParticipant(ctx, session, voterID); err != nil {
		return nil, err
	}

	option, err := s.repo.GetOptionByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if option.SessionID != sessionID {
		return nil, ErrNotFound
	}

	vote, err := s.repo.UpsertVote(ctx, CastVoteParams{
		SessionID:    sessionID,
		OptionID:     optionID,
		VoterID:      voterID,
		Weight:       weight,
		Comment:      comment,
		SingleChoice: !session.Rules.MultipleVotes,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, sessionID)
	s.publish(sessionID, "vote_cast", Map{"option_id": optionID.String()})

	s.activity.RecordSystem(ctx, voterID, ActivityVoteCast, Map{
		"session_id": sessionID.String(),
	})

	return vote, nil
}

// Results computes the tally, reading through the cache when possible.
func (s *CollabService) Results(ctx context.Context, sessionID uuid.UUID) (*VotingResults, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, sessionID); err == nil && cached != nil {
			return cached, nil
		}
	}

	if _, err := s.repo.GetSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}

	options, err := s.repo.GetOptions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	votes, err := s.repo.GetVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	results := Tally(sessionID, options, votes)

	if s.cache != nil {
		if err := s.cache.Set(ctx, sessionID, results); err != nil {
			s.logger.Warn("failed to cache tally", zap.String("session_id", sessionID.String()), zap.Error(err))
		}
	}

	return results, nil
}

// Details assembles the full session view for userID: options annotated with
// the caller's own vote, derived participants, the tally, and access flags.
func (s *CollabService) Details(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDetails, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	options, err := s.repo.GetOptions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	userVotes, err := s.repo.GetUserVotes(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.GetParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	results, err := s.Results(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	byOption := make(map[uuid.UUID]*CollabVote, len(userVotes))
	for _, v := range userVotes {
		byOption[v.OptionID] = v
	}
	byID := make(map[uuid.UUID]int, len(results.Options))
	for _, r := range results.Options {
		byID[r.OptionID] = r.Votes
	}
	for _, opt := range options {
		opt.UserVote = byOption[opt.ID]
		opt.VoteCount = byID[opt.ID]
	}

	eligible := s.checkParticipant(ctx, session, userID) == nil
	beforeDeadline := session.Deadline == nil || time.Now().Before(*session.Deadline)

	return &SessionDetails{
		Session:      session,
		Options:      options,
		Participants: participants,
		Results:      results,
		CanVote:      session.Status == SessionStatusActive && beforeDeadline && eligible,
		UserHasVoted: len(userVotes) > 0,
	}, nil
}

// Close transitions active -> closed. Creator only. Closed is terminal.
func (s *CollabService) Close(ctx context.Context, userID, sessionID uuid.UUID) (*CollabSession, error) {
	return s.finish(ctx, userID, sessionID, SessionStatusClosed)
}

// Cancel transitions active -> cancelled. Creator only. Terminal.
func (s *CollabService) Cancel(ctx context.Context, userID, sessionID uuid.UUID) (*CollabSession, error) {
	return s.finish(ctx, userID, sessionID, SessionStatusCancelled)
}

func (s *CollabService) finish(ctx context.Context, userID, sessionID uuid.UUID, status SessionStatus) (*CollabSession, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatorID != userID {
		return nil, ErrForbidden
	}
	if session.Status != SessionStatusActive {
		return nil, ErrSessionNotActive
	}
	return s.transition(ctx, session, status)
}

func (s *CollabService) transition(ctx context.Context, session *CollabSession, status SessionStatus) (*CollabSession, error) {
	updated, err := s.repo.UpdateSessionStatus(ctx, session.ID, status)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, session.ID)

	if status == SessionStatusClosed {
		results, err := s.Results(ctx, session.ID)
		if err != nil {
			s.logger.Warn("failed to compute final results", zap.String("session_id", session.ID.String()), zap.Error(err))
		} else {
			s.publish(session.ID, "session_closed", results)
		}

		s.activity.RecordSystem(ctx, session.CreatorID, ActivitySessionClosed, Map{
			"session_id": session.ID.String(),
			"title":      session.Title,
		})

		participants, err := s.repo.GetParticipants(ctx, session.ID)
		if err == nil {
			for _, p := range participants {
				s.notifier.Notify(ctx, p.UserID,
					"Decision closed",
					"Voting has closed for "+session.Title,
					map[string]string{"type": "session_closed", "session_id": session.ID.String()},
				)
			}
		}
	} else {
		s.publish(session.ID, "session_cancelled", nil)
	}

	return updated, nil
}

// CloseExpired sweeps active sessions whose deadline has passed and closes
// them. Invoked by the background worker.
func (s *CollabService) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.ListExpiredActiveSessions(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, session := range expired {
		if _, err := s.transition(ctx, session, SessionStatusClosed); err != nil {
			s.logger.Error("failed to close expired session",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *CollabService) ListMine(ctx context.Context, userID uuid.UUID, status *SessionStatus, limit, offset int) ([]*CollabSession, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListSessionsForUser(ctx, userID, status, limit, offset)
}

// checkParticipant allows the creator and their accepted connections.
func (s *CollabService) checkParticipant(ctx context.Context, session *CollabSession, userID uuid.UUID) error {
	if session.CreatorID == userID {
		return nil
	}
	connected, err := s.conns.IsConnected(ctx, session.CreatorID, userID)
	if err != nil {
		return err
	}
	if !connected {
		return ErrNotParticipant
	}
	return nil
}

func (s *CollabService) invalidate(ctx context.Context, sessionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, sessionID); err != nil {
		s.logger.Warn("failed to invalidate tally cache", zap.String("session_id", sessionID.String()), zap.Error(err))
	}
}

func (s *CollabService) publish(sessionID uuid.UUID, kind string, data interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToSession(sessionID, SessionEvent{
		Kind:      kind,
		SessionID: sessionID,
		Data:      data,
	})
}
