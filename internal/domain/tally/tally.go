// Package tally aggregates the append-only vote log into per-resolution
// results. Every function here is a pure point-in-time computation: it never
// mutates state, never raises for a well-formed vote set (including the
// empty set) and degrades divisions by zero to 0.
package tally

import (
	"sort"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/vote"
)

// ApprovalStatus distinguishes a failed vote from an empty one; the two
// render differently and must not collapse into each other.
type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
	StatusNoVotes  ApprovalStatus = "NO_VOTES"
)

// Config carries deployment-level tally policy. ExcludeAbstain flips the
// approval-rate denominator from all shares voted to yes+no shares only;
// the default keeps abstention diluting approval.
type Config struct {
	ExcludeAbstain bool
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// YesNoResult is the share-weighted split of a YES_NO resolution.
type YesNoResult struct {
	YesShares        int64          `json:"yes_shares"`
	NoShares         int64          `json:"no_shares"`
	AbstainShares    int64          `json:"abstain_shares"`
	TotalSharesVoted int64          `json:"total_shares_voted"`
	TotalBallots     int64          `json:"total_ballots"`
	ApprovalRate     float64        `json:"approval_rate"`
	ApprovalStatus   ApprovalStatus `json:"approval_status"`
	IsApproved       bool           `json:"is_approved"`
}

// OptionResult is one row of a MULTIPLE_CHOICE tally, shares-weighted.
type OptionResult struct {
	OptionID     int64   `json:"option_id"`
	OptionCode   string  `json:"option_code"`
	OptionText   string  `json:"option_text"`
	DisplayOrder int     `json:"display_order"`
	VoteCount    int64   `json:"vote_count"`
	Percentage   float64 `json:"percentage"`
	Rank         int     `json:"rank"`
}

// CandidateResult is one row of a RANKING tally. VoteCount and AverageRank
// are ballot-based and unweighted: a rank is a position, not a share
// quantity, so weighting by shares would be semantically wrong.
type CandidateResult struct {
	CandidateID      int64       `json:"candidate_id"`
	CandidateCode    string      `json:"candidate_code"`
	CandidateName    string      `json:"candidate_name"`
	DisplayOrder     int         `json:"display_order"`
	VoteCount        int64       `json:"vote_count"`
	AverageRank      float64     `json:"average_rank"`
	RankDistribution map[int]int `json:"rank_distribution"`
	Position         int         `json:"position"`
}

// MeetingStats is the cross-resolution rollup for one meeting.
type MeetingStats struct {
	TotalVotes        int64   `json:"total_votes"`
	TotalShareholders int64   `json:"total_shareholders"`
	ParticipationRate float64 `json:"participation_rate"`
}

// YesNo partitions shares by decoded token and decides approval against the
// resolution's threshold. A threshold of 0 trivially approves any non-empty
// vote; with no votes at all the status is NO_VOTES, never REJECTED.
func (e *Engine) YesNo(threshold int, votes []vote.Vote) YesNoResult {
	var r YesNoResult
	for _, v := range votes {
		b, err := ballot.Decode(ballot.MethodYesNo, v.VoteValue)
		if err != nil {
			continue // cannot happen via the write path; skip rather than fail the read
		}
		r.TotalBallots++
		switch b.(ballot.YesNoBallot).Choice {
		case ballot.ChoiceYes:
			r.YesShares += v.SharesUsed
		case ballot.ChoiceNo:
			r.NoShares += v.SharesUsed
		case ballot.ChoiceAbstain:
			r.AbstainShares += v.SharesUsed
		}
	}
	r.TotalSharesVoted = r.YesShares + r.NoShares + r.AbstainShares

	denominator := r.TotalSharesVoted
	if e.cfg.ExcludeAbstain {
		denominator = r.YesShares + r.NoShares
	}
	r.ApprovalRate = percentage(r.YesShares, denominator)

	switch {
	case r.TotalBallots == 0:
		r.ApprovalStatus = StatusNoVotes
	case r.ApprovalRate >= float64(threshold):
		r.ApprovalStatus = StatusApproved
		r.IsApproved = true
	default:
		r.ApprovalStatus = StatusRejected
	}
	return r
}

// MultipleChoice counts shares per selected option. Every option of the
// registry appears in the result even with zero votes. Ordering is vote
// count descending with display order ascending as the deterministic
// tie-break, so repeated runs always produce the same top-N.
func (e *Engine) MultipleChoice(options []resolution.Option, votes []vote.Vote) []OptionResult {
	counts := make(map[int64]int64, len(options))
	for _, v := range votes {
		b, err := ballot.Decode(ballot.MethodMultipleChoice, v.VoteValue)
		if err != nil {
			continue
		}
		for _, id := range b.(ballot.ChoiceBallot).OptionIDs {
			counts[id] += v.SharesUsed
		}
	}

	var total int64
	results := make([]OptionResult, 0, len(options))
	for _, o := range options {
		c := counts[o.ID]
		total += c
		results = append(results, OptionResult{
			OptionID:     o.ID,
			OptionCode:   o.OptionCode,
			OptionText:   o.OptionText,
			DisplayOrder: o.DisplayOrder,
			VoteCount:    c,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].VoteCount != results[j].VoteCount {
			return results[i].VoteCount > results[j].VoteCount
		}
		return results[i].DisplayOrder < results[j].DisplayOrder
	})

	for i := range results {
		results[i].Percentage = percentage(results[i].VoteCount, total)
		results[i].Rank = i + 1
	}
	return results
}

// Ranking derives, per candidate, the ballot count, the unweighted mean of
// received ranks and the rank histogram. Final ordering is average rank
// ascending, ballot count descending on ties.
func (e *Engine) Ranking(candidates []resolution.Candidate, votes []vote.Vote) []CandidateResult {
	type acc struct {
		ballots int64
		rankSum int64
		dist    map[int]int
	}
	byCode := make(map[string]*acc, len(candidates))
	for _, c := range candidates {
		byCode[c.CandidateCode] = &acc{dist: make(map[int]int)}
	}

	for _, v := range votes {
		b, err := ballot.Decode(ballot.MethodRanking, v.VoteValue)
		if err != nil {
			continue
		}
		for code, rank := range b.(ballot.RankBallot).Ranks {
			a, ok := byCode[code]
			if !ok {
				continue
			}
			a.ballots++
			a.rankSum += int64(rank)
			a.dist[rank]++
		}
	}

	results := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		a := byCode[c.CandidateCode]
		r := CandidateResult{
			CandidateID:      c.ID,
			CandidateCode:    c.CandidateCode,
			CandidateName:    c.CandidateName,
			DisplayOrder:     c.DisplayOrder,
			VoteCount:        a.ballots,
			RankDistribution: a.dist,
		}
		if a.ballots > 0 {
			r.AverageRank = float64(a.rankSum) / float64(a.ballots)
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		// Unranked candidates sink to the bottom.
		if (ri.VoteCount == 0) != (rj.VoteCount == 0) {
			return rj.VoteCount == 0
		}
		if ri.AverageRank != rj.AverageRank {
			return ri.AverageRank < rj.AverageRank
		}
		if ri.VoteCount != rj.VoteCount {
			return ri.VoteCount > rj.VoteCount
		}
		return ri.DisplayOrder < rj.DisplayOrder
	})

	for i := range results {
		results[i].Position = i + 1
	}
	return results
}

// Meeting computes the cross-resolution participation rollup.
// totalShareholders is the meeting's registered headcount.
func (e *Engine) Meeting(totalShareholders int64, votes []vote.Vote) MeetingStats {
	voters := make(map[int64]bool)
	for _, v := range votes {
		voters[v.ShareholderID] = true
	}
	return MeetingStats{
		TotalVotes:        int64(len(votes)),
		TotalShareholders: int64(len(voters)),
		ParticipationRate: percentage(int64(len(voters)), totalShareholders),
	}
}

func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100.0 / float64(total)
}
