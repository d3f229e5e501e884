package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Tally aggregates votes per option and computes the winner. Ordering is
// deterministic: vote count descending, then option creation time ascending,
// then option ID ascending. The winner is the first option under that
// ordering, so equal counts always resolve to the earliest-created option.
//
// Weights sum into the count: an unweighted session (weight 1 everywhere)
// counts voters, a weighted one counts total weight.
func Tally(sessionID uuid.UUID, options []*CollabOption, votes []*CollabVote) *VotingResults {
	counts := make(map[uuid.UUID]int, len(options))
	for _, v := range votes {
		counts[v.OptionID] += v.Weight
	}

	ordered := make([]*CollabOption, len(options))
	copy(ordered, options)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := counts[ordered[i].ID], counts[ordered[j].ID]
		if ci != cj {
			return ci > cj
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	total := 0
	for _, c := range counts {
		total += c
	}

	results := &VotingResults{
		SessionID:  sessionID,
		TotalVotes: total,
		Options:    make([]OptionResult, 0, len(ordered)),
	}

	votedOptions := 0
	for _, opt := range ordered {
		c := counts[opt.ID]
		if c > 0 {
			votedOptions++
		}
		pct := 0.0
		if total > 0 {
			pct = float64(c) / float64(total) * 100
		}
		results.Options = append(results.Options, OptionResult{
			OptionID:     opt.ID,
			RestaurantID: opt.RestaurantID,
			Votes:        c,
			Percentage:   pct,
		})
	}

	if total > 0 && len(ordered) > 0 {
		winnerID := ordered[0].ID
		results.WinningOptionID = &winnerID
		results.IsUnanimous = votedOptions == 1
		if len(ordered) > 1 {
			results.IsTie = counts[ordered[0].ID] == counts[ordered[1].ID] && votedOptions >= 2
		}
	}

	return results
}
