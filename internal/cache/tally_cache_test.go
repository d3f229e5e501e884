package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
)

func newTestCache(t *testing.T) (*TallyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTallyCache(client, time.Minute, zap.NewNop()), mr
}

func sampleResults(sessionID uuid.UUID) *domain.VotingResults {
	winner := uuid.New()
	return &domain.VotingResults{
		SessionID:       sessionID,
		TotalVotes:      3,
		WinningOptionID: &winner,
		Options: []domain.OptionResult{
			{OptionID: winner, Votes: 2, Percentage: 66.66666666666666},
			{OptionID: uuid.New(), Votes: 1, Percentage: 33.33333333333333},
		},
	}
}

func TestTallyCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	sessionID := uuid.New()
	results := sampleResults(sessionID)

	if err := c.Set(ctx, sessionID, results); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.SessionID != sessionID || got.TotalVotes != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.WinningOptionID == nil || *got.WinningOptionID != *results.WinningOptionID {
		t.Fatal("winner lost in the round trip")
	}
	if len(got.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(got.Options))
	}
}

func TestTallyCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected a miss for an unknown session")
	}
}

func TestTallyCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	sessionID := uuid.New()

	if err := c.Set(ctx, sessionID, sampleResults(sessionID)); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(ctx, sessionID); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("entry survived invalidation")
	}
}

func TestTallyCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	sessionID := uuid.New()

	if err := c.Set(ctx, sessionID, sampleResults(sessionID)); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("entry survived its TTL")
	}
}

func TestTallyCacheCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	sessionID := uuid.New()

	if err := mr.Set("tally:"+sessionID.String(), "not json"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("corrupt entry should read as a miss")
	}
	if mr.Exists("tally:" + sessionID.String()) {
		t.Fatal("corrupt entry should be deleted")
	}
}
