package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func makeOptions(n int) []*CollabOption {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	options := make([]*CollabOption, n)
	for i := range options {
		options[i] = &CollabOption{
			ID:           uuid.New(),
			RestaurantID: uuid.New(),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return options
}

func votesFor(option *CollabOption, n int) []*CollabVote {
	votes := make([]*CollabVote, n)
	for i := range votes {
		votes[i] = &CollabVote{
			ID:       uuid.New(),
			OptionID: option.ID,
			VoterID:  uuid.New(),
			Weight:   1,
		}
	}
	return votes
}

func TestTallyPercentagesSumTo100(t *testing.T) {
	options := makeOptions(3)
	var votes []*CollabVote
	votes = append(votes, votesFor(options[0], 3)...)
	votes = append(votes, votesFor(options[1], 2)...)
	votes = append(votes, votesFor(options[2], 4)...)

	results := Tally(uuid.New(), options, votes)

	sum := 0.0
	for _, r := range results.Options {
		sum += r.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestTallyNoVotes(t *testing.T) {
	options := makeOptions(2)
	results := Tally(uuid.New(), options, nil)

	if results.TotalVotes != 0 {
		t.Fatalf("total = %d, want 0", results.TotalVotes)
	}
	if results.WinningOptionID != nil {
		t.Fatal("expected no winner with zero votes")
	}
	if results.IsTie || results.IsUnanimous {
		t.Fatal("expected no tie or unanimity flags with zero votes")
	}
	for _, r := range results.Options {
		if r.Percentage != 0 {
			t.Fatalf("percentage = %v, want 0", r.Percentage)
		}
	}
}

func TestTallyWinnerIsMaxCount(t *testing.T) {
	options := makeOptions(3)
	var votes []*CollabVote
	votes = append(votes, votesFor(options[0], 1)...)
	votes = append(votes, votesFor(options[1], 5)...)
	votes = append(votes, votesFor(options[2], 2)...)

	results := Tally(uuid.New(), options, votes)

	if results.WinningOptionID == nil || *results.WinningOptionID != options[1].ID {
		t.Fatalf("winner = %v, want %v", results.WinningOptionID, options[1].ID)
	}
	if results.IsTie {
		t.Fatal("unexpected tie")
	}
	if results.Options[0].OptionID != options[1].ID {
		t.Fatal("results not ordered by vote count descending")
	}
}

func TestTallyTieBreaksByCreationOrder(t *testing.T) {
	options := makeOptions(3)
	var votes []*CollabVote
	votes = append(votes, votesFor(options[0], 3)...)
	votes = append(votes, votesFor(options[1], 3)...)
	votes = append(votes, votesFor(options[2], 1)...)

	results := Tally(uuid.New(), options, votes)

	if results.TotalVotes != 7 {
		t.Fatalf("total = %d, want 7", results.TotalVotes)
	}
	if !results.IsTie {
		t.Fatal("expected tie between the top two options")
	}
	if results.IsUnanimous {
		t.Fatal("unexpected unanimity")
	}
	// Earliest-created option wins the tie, deterministically.
	if results.WinningOptionID == nil || *results.WinningOptionID != options[0].ID {
		t.Fatalf("winner = %v, want earliest-created %v", results.WinningOptionID, options[0].ID)
	}
}

func TestTallyUnanimous(t *testing.T) {
	options := makeOptions(3)
	votes := votesFor(options[0], 5)

	results := Tally(uuid.New(), options, votes)

	if results.TotalVotes != 5 {
		t.Fatalf("total = %d, want 5", results.TotalVotes)
	}
	if !results.IsUnanimous {
		t.Fatal("expected unanimous result")
	}
	if results.IsTie {
		t.Fatal("unexpected tie")
	}
	if results.WinningOptionID == nil || *results.WinningOptionID != options[0].ID {
		t.Fatalf("winner = %v, want %v", results.WinningOptionID, options[0].ID)
	}
}

func TestTallyNotUnanimousWhenSecondOptionVoted(t *testing.T) {
	options := makeOptions(2)
	var votes []*CollabVote
	votes = append(votes, votesFor(options[0], 4)...)
	votes = append(votes, votesFor(options[1], 1)...)

	results := Tally(uuid.New(), options, votes)

	if results.IsUnanimous {
		t.Fatal("unanimous despite votes on two options")
	}
}

func TestTallyWeightsSumIntoCounts(t *testing.T) {
	options := makeOptions(2)
	votes := []*CollabVote{
		{ID: uuid.New(), OptionID: options[0].ID, VoterID: uuid.New(), Weight: 2},
		{ID: uuid.New(), OptionID: options[1].ID, VoterID: uuid.New(), Weight: 3},
	}

	results := Tally(uuid.New(), options, votes)

	if results.TotalVotes != 5 {
		t.Fatalf("total = %d, want 5", results.TotalVotes)
	}
	if results.WinningOptionID == nil || *results.WinningOptionID != options[1].ID {
		t.Fatal("heavier vote should win")
	}
}

func TestTallySameCreationTimeBreaksByID(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &CollabOption{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), CreatedAt: created}
	b := &CollabOption{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), CreatedAt: created}
	votes := []*CollabVote{
		{ID: uuid.New(), OptionID: a.ID, VoterID: uuid.New(), Weight: 1},
		{ID: uuid.New(), OptionID: b.ID, VoterID: uuid.New(), Weight: 1},
	}

	// Same input in either option order resolves to the same winner.
	r1 := Tally(uuid.New(), []*CollabOption{a, b}, votes)
	r2 := Tally(uuid.New(), []*CollabOption{b, a}, votes)

	if r1.WinningOptionID == nil || r2.WinningOptionID == nil {
		t.Fatal("expected winners")
	}
	if *r1.WinningOptionID != *r2.WinningOptionID {
		t.Fatal("winner depends on input order")
	}
	if *r1.WinningOptionID != a.ID {
		t.Fatalf("winner = %v, want lowest id %v", r1.WinningOptionID, a.ID)
	}
}
