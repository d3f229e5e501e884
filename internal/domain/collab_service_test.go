package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type collabFixture struct {
	service  *CollabService
	repo     *fakeCollabRepo
	connRepo *fakeConnRepo
}

func newCollabFixture(t *testing.T, maxWeight int) *collabFixture {
	t.Helper()
	connRepo := newFakeConnRepo()
	socialRepo := newFakeSocialRepo()
	activity := NewActivityService(&fakeActivityRepo{}, zap.NewNop())
	conns := NewConnectionService(connRepo, socialRepo, activity)
	repo := newFakeCollabRepo()
	service := NewCollabService(repo, conns, activity, nil, nil, nil, maxWeight, zap.NewNop())
	return &collabFixture{service: service, repo: repo, connRepo: connRepo}
}

// connect makes a and b accepted connections so b is participant-eligible in
// a's sessions.
func (f *collabFixture) connect(t *testing.T, a, b uuid.UUID) {
	t.Helper()
	conn, err := f.connRepo.CreateConnection(context.Background(), CreateConnectionParams{
		RequesterID: a, ReceiverID: b, Type: ConnectionTypeFamily,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.connRepo.UpdateConnectionStatus(context.Background(), conn.ID, ConnectionStatusAccepted); err != nil {
		t.Fatal(err)
	}
}

func (f *collabFixture) newSession(t *testing.T, creator uuid.UUID, rules VotingRules) *CollabSession {
	t.Helper()
	session, err := f.service.Create(context.Background(), CreateSessionParams{
		CreatorID: creator,
		Title:     "Friday dinner",
		Type:      "restaurant_choice",
		Rules:     rules,
	})
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func (f *collabFixture) addOption(t *testing.T, userID uuid.UUID, sessionID uuid.UUID) *CollabOption {
	t.Helper()
	option, err := f.service.AddOption(context.Background(), userID, AddOptionParams{
		SessionID:    sessionID,
		RestaurantID: uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return option
}

func TestCastVoteReplacesPriorVote(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	optionA := f.addOption(t, creator, session.ID)
	optionB := f.addOption(t, creator, session.ID)

	ctx := context.Background()
	if _, err := f.service.CastVote(ctx, creator, session.ID, optionA.ID, 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.CastVote(ctx, creator, session.ID, optionB.ID, 1, nil); err != nil {
		t.Fatal(err)
	}

	results, err := f.service.Results(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if results.TotalVotes != 1 {
		t.Fatalf("total = %d, want exactly one vote after re-voting", results.TotalVotes)
	}
	if results.WinningOptionID == nil || *results.WinningOptionID != optionB.ID {
		t.Fatalf("winner = %v, want the replacement vote's option %v", results.WinningOptionID, optionB.ID)
	}
}

func TestCastVoteMultipleVotesRules(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{MultipleVotes: true})
	optionA := f.addOption(t, creator, session.ID)
	optionB := f.addOption(t, creator, session.ID)

	ctx := context.Background()
	if _, err := f.service.CastVote(ctx, creator, session.ID, optionA.ID, 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.CastVote(ctx, creator, session.ID, optionB.ID, 1, nil); err != nil {
		t.Fatal(err)
	}

	results, err := f.service.Results(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if results.TotalVotes != 2 {
		t.Fatalf("total = %d, want both votes kept under multiple_votes", results.TotalVotes)
	}
}

func TestCastVoteWeightBounds(t *testing.T) {
	f := newCollabFixture(t, 3)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	option := f.addOption(t, creator, session.ID)

	ctx := context.Background()
	for _, weight := range []int{-1, 4} {
		if _, err := f.service.CastVote(ctx, creator, session.ID, option.ID, weight, nil); !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("weight %d: err = %v, want ErrInvalidWeight", weight, err)
		}
	}
	// Zero means unspecified and defaults to 1.
	if _, err := f.service.CastVote(ctx, creator, session.ID, option.ID, 0, nil); err != nil {
		t.Fatalf("weight 0: %v", err)
	}
	if _, err := f.service.CastVote(ctx, creator, session.ID, option.ID, 3, nil); err != nil {
		t.Fatalf("weight 3: %v", err)
	}
}

func TestCastVoteRequiresActiveSession(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	option := f.addOption(t, creator, session.ID)

	ctx := context.Background()
	if _, err := f.service.Close(ctx, creator, session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.CastVote(ctx, creator, session.ID, option.ID, 1, nil); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("err = %v, want ErrSessionNotActive", err)
	}
}

func TestCastVoteRejectsNonParticipant(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	stranger := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	option := f.addOption(t, creator, session.ID)

	if _, err := f.service.CastVote(context.Background(), stranger, session.ID, option.ID, 1, nil); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestCastVoteAllowsConnectedParticipant(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	member := uuid.New()
	f.connect(t, creator, member)
	session := f.newSession(t, creator, VotingRules{})
	option := f.addOption(t, creator, session.ID)

	if _, err := f.service.CastVote(context.Background(), member, session.ID, option.ID, 1, nil); err != nil {
		t.Fatal(err)
	}
}

func TestAddOptionRejectsDuplicateRestaurant(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	restaurantID := uuid.New()

	ctx := context.Background()
	if _, err := f.service.AddOption(ctx, creator, AddOptionParams{SessionID: session.ID, RestaurantID: restaurantID}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.AddOption(ctx, creator, AddOptionParams{SessionID: session.ID, RestaurantID: restaurantID}); !errors.Is(err, ErrDuplicateOption) {
		t.Fatalf("err = %v, want ErrDuplicateOption", err)
	}
}

func TestCloseIsCreatorOnlyAndTerminal(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	member := uuid.New()
	f.connect(t, creator, member)
	session := f.newSession(t, creator, VotingRules{})

	ctx := context.Background()
	if _, err := f.service.Close(ctx, member, session.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := f.service.Close(ctx, creator, session.ID); err != nil {
		t.Fatal(err)
	}
	// closed is terminal: a second transition fails
	if _, err := f.service.Cancel(ctx, creator, session.ID); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("err = %v, want ErrSessionNotActive", err)
	}
}

func TestDetailsFlags(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()
	session := f.newSession(t, creator, VotingRules{})
	option := f.addOption(t, creator, session.ID)

	ctx := context.Background()
	details, err := f.service.Details(ctx, creator, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !details.CanVote {
		t.Fatal("creator should be able to vote in an active session")
	}
	if details.UserHasVoted {
		t.Fatal("user_has_voted should be false before voting")
	}

	if _, err := f.service.CastVote(ctx, creator, session.ID, option.ID, 1, nil); err != nil {
		t.Fatal(err)
	}

	details, err = f.service.Details(ctx, creator, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !details.UserHasVoted {
		t.Fatal("user_has_voted should be true after voting")
	}
	if details.Options[0].UserVote == nil {
		t.Fatal("option should carry the caller's own vote")
	}
	if details.Options[0].VoteCount != 1 {
		t.Fatalf("vote_count = %d, want 1", details.Options[0].VoteCount)
	}

	if _, err := f.service.Close(ctx, creator, session.ID); err != nil {
		t.Fatal(err)
	}
	details, err = f.service.Details(ctx, creator, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if details.CanVote {
		t.Fatal("can_vote must be false once the session is closed")
	}
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	f := newCollabFixture(t, 1)
	past := time.Now().Add(-time.Hour)
	_, err := f.service.Create(context.Background(), CreateSessionParams{
		CreatorID: uuid.New(),
		Title:     "Too late",
		Deadline:  &past,
	})
	if err == nil {
		t.Fatal("expected error for past deadline")
	}
}

func TestCloseExpiredSweepsPastDeadlines(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()

	deadline := time.Now().Add(time.Minute)
	session, err := f.service.Create(context.Background(), CreateSessionParams{
		CreatorID: creator,
		Title:     "Lunch vote",
		Deadline:  &deadline,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	closed, err := f.service.CloseExpired(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if closed != 0 {
		t.Fatalf("closed = %d before the deadline, want 0", closed)
	}

	closed, err = f.service.CloseExpired(ctx, deadline.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}

	got, err := f.repo.GetSessionByID(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != SessionStatusClosed {
		t.Fatalf("status = %s, want closed", got.Status)
	}
}

func TestCastVoteAfterDeadline(t *testing.T) {
	f := newCollabFixture(t, 1)
	creator := uuid.New()

	deadline := time.Now().Add(10 * time.Millisecond)
	session, err := f.service.Create(context.Background(), CreateSessionParams{
		CreatorID: creator,
		Title:     "Quick vote",
		Deadline:  &deadline,
	})
	if err != nil {
		t.Fatal(err)
	}
	option := f.addOption(t, creator, session.ID)

	time.Sleep(20 * time.Millisecond)
	if _, err := f.service.CastVote(context.Background(), creator, session.ID, option.ID, 1, nil); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}
