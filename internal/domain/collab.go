package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusClosed    SessionStatus = "closed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// VotingRules configure how votes are counted in a session.
type VotingRules struct {
	MultipleVotes    bool `json:"multiple_votes"`
	RequireUnanimous bool `json:"require_unanimous"`
}

// CollabSession is a bounded group decision event. Status transitions are
// active -> closed|cancelled, both terminal.
type CollabSession struct {
	ID          uuid.UUID     `json:"id"`
	CreatorID   uuid.UUID     `json:"creator_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Type        string        `json:"type"`
	Status      SessionStatus `json:"status"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Rules       VotingRules   `json:"voting_rules"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CollabOption is a candidate restaurant proposed within a session.
// VoteCount and UserVote are derived at read time, never stored.
type CollabOption struct {
	ID           uuid.UUID   `json:"id"`
	SessionID    uuid.UUID   `json:"session_id"`
	RestaurantID uuid.UUID   `json:"restaurant_id"`
	SuggestedBy  uuid.UUID   `json:"suggested_by"`
	Reason       *string     `json:"reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	VoteCount    int         `json:"vote_count"`
	UserVote     *CollabVote `json:"user_vote,omitempty"`
}

// CollabVote is one participant's weighted choice of an option.
type CollabVote struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	OptionID  uuid.UUID `json:"option_id"`
	VoterID   uuid.UUID `json:"voter_id"`
	Weight    int       `json:"weight"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant is derived from creator plus anyone who voted or proposed an
// option.
type Participant struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	IsCreator bool      `json:"is_creator"`
	HasVoted  bool      `json:"has_voted"`
}

// OptionResult is one option's share of the tally.
type OptionResult struct {
	OptionID     uuid.UUID `json:"option_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Votes        int       `json:"votes"`
	Percentage   float64   `json:"percentage"`
}

// VotingResults is the aggregated outcome of a session's votes. Options are
// ordered by votes descending, ties broken by option creation time, then
// option ID, so the ordering and the winner are deterministic.
type VotingResults struct {
	SessionID       uuid.UUID      `json:"session_id"`
	TotalVotes      int            `json:"total_votes"`
	Options         []OptionResult `json:"options"`
	WinningOptionID *uuid.UUID     `json:"winning_option_id,omitempty"`
	IsTie           bool           `json:"is_tie"`
	IsUnanimous     bool           `json:"is_unanimous"`
}

// SessionDetails is the assembled view of one session for the caller.
type SessionDetails struct {
	Session      *CollabSession  `json:"session"`
	Options      []*CollabOption `json:"options"`
	Participants []Participant   `json:"participants"`
	Results      *VotingResults  `json:"results"`
	CanVote      bool            `json:"can_vote"`
	UserHasVoted bool            `json:"user_has_voted"`
}

type CreateSessionParams struct {
	CreatorID   uuid.UUID
	Title       string
	Description *string
	Type        string
	Deadline    *time.Time
	Rules       VotingRules
}

type AddOptionParams struct {
	SessionID    uuid.UUID
	RestaurantID uuid.UUID
	SuggestedBy  uuid.UUID
	Reason       *string
}

type CastVoteParams struct {
	SessionID uuid.UUID
	OptionID  uuid.UUID
	VoterID   uuid.UUID
	Weight    int
	Comment   *string
	// SingleChoice replaces any prior vote by the same voter in the session.
	SingleChoice bool
}

type CollabRepository interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CollabSession, error)
	GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*CollabSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID uuid.UUID, status SessionStatus) (*CollabSession, error)
	// ListSessionsForUser returns sessions the user created or voted in.
	ListSessionsForUser(ctx context.Context, userID uuid.UUID, status *SessionStatus, limit, offset int) ([]*CollabSession, error)
	// ListExpiredActiveSessions returns active sessions whose deadline is
	// at or before now.
	ListExpiredActiveSessions(ctx context.Context, now time.Time) ([]*CollabSession, error)

	AddOption(ctx context.Context, params AddOptionParams) (*CollabOption, error)
	GetOptionByID(ctx context.Context, optionID uuid.UUID) (*CollabOption, error)
	GetOptions(ctx context.Context, sessionID uuid.UUID) ([]*CollabOption, error)
	OptionExists(ctx context.Context, sessionID, restaurantID uuid.UUID) (bool, error)

	UpsertVote(ctx context.Context, params CastVoteParams) (*CollabVote, error)
	GetVotes(ctx context.Context, sessionID uuid.UUID) ([]*CollabVote, error)
	GetUserVotes(ctx context.Context, sessionID, voterID uuid.UUID) ([]*CollabVote, error)
	GetParticipants(ctx context.Context, sessionID uuid.UUID) ([]Participant, error)
}

// TallyCache caches computed results per session. Implementations must be
// nil-safe disabled when no backing store is configured.
type TallyCache interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*VotingResults, error)
	Set(ctx context.Context, sessionID uuid.UUID, results *VotingResults) error
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// SessionBroadcaster pushes live events to clients watching a session.
type SessionBroadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event interface{})
}
