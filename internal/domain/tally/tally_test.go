package tally

import (
	"testing"

	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/vote"
)

func yesNoVotes(yes, no, abstain []int64) []vote.Vote {
	var votes []vote.Vote
	var holder int64 = 1
	add := func(value string, shares []int64) {
		for _, s := range shares {
			votes = append(votes, vote.Vote{ShareholderID: holder, VoteValue: value, SharesUsed: s})
			holder++
		}
	}
	add("YES", yes)
	add("NO", no)
	add("ABSTAIN", abstain)
	return votes
}

func TestYesNoApprovalBoundary(t *testing.T) {
	e := NewEngine(Config{})

	r := e.YesNo(60, yesNoVotes([]int64{60}, []int64{40}, nil))
	if r.ApprovalRate != 60.0 {
		t.Fatalf("expected 60.0 approval rate, got %v", r.ApprovalRate)
	}
	if !r.IsApproved || r.ApprovalStatus != StatusApproved {
		t.Fatalf("60%% against threshold 60 must approve: %+v", r)
	}

	r = e.YesNo(61, yesNoVotes([]int64{60}, []int64{40}, nil))
	if r.IsApproved || r.ApprovalStatus != StatusRejected {
		t.Fatalf("60%% against threshold 61 must reject: %+v", r)
	}
}

func TestYesNoAllAbstain(t *testing.T) {
	e := NewEngine(Config{})

	r := e.YesNo(50, yesNoVotes(nil, nil, []int64{100}))
	if r.ApprovalRate != 0 {
		t.Fatalf("all-abstain approval rate must be 0, got %v", r.ApprovalRate)
	}
	if r.IsApproved {
		t.Fatalf("all-abstain must not approve at threshold 50")
	}

	// Threshold 0 trivially approves any non-empty vote.
	r = e.YesNo(0, yesNoVotes(nil, nil, []int64{100}))
	if !r.IsApproved {
		t.Fatalf("threshold 0 must approve: %+v", r)
	}
}

func TestYesNoAbstainDilutesApproval(t *testing.T) {
	votes := yesNoVotes([]int64{50}, []int64{25}, []int64{25})

	r := NewEngine(Config{}).YesNo(60, votes)
	if r.ApprovalRate != 50.0 {
		t.Fatalf("abstain must count in the denominator: got %v", r.ApprovalRate)
	}
	if r.IsApproved {
		t.Fatalf("diluted 50%% must not pass threshold 60")
	}

	r = NewEngine(Config{ExcludeAbstain: true}).YesNo(60, votes)
	if r.ApprovalRate != float64(50)*100/75 {
		t.Fatalf("exclude-abstain rate wrong: got %v", r.ApprovalRate)
	}
	if !r.IsApproved {
		t.Fatalf("exclude-abstain policy must approve here")
	}
}

func TestYesNoZeroVotes(t *testing.T) {
	r := NewEngine(Config{}).YesNo(50, nil)
	if r.ApprovalStatus != StatusNoVotes {
		t.Fatalf("empty vote set must report NO_VOTES, got %s", r.ApprovalStatus)
	}
	if r.ApprovalRate != 0 || r.TotalSharesVoted != 0 || r.IsApproved {
		t.Fatalf("empty vote set must zero out: %+v", r)
	}
}

func TestMultipleChoiceShareWeighting(t *testing.T) {
	options := []resolution.Option{
		{ID: 1, OptionCode: "OPT_1", DisplayOrder: 1},
		{ID: 2, OptionCode: "OPT_2", DisplayOrder: 2},
	}
	votes := []vote.Vote{
		{ShareholderID: 1, VoteValue: "[1]", SharesUsed: 100},
		{ShareholderID: 2, VoteValue: "[1]", SharesUsed: 50},
		{ShareholderID: 3, VoteValue: "[1,2]", SharesUsed: 25},
	}

	results := NewEngine(Config{}).MultipleChoice(options, votes)
	if results[0].OptionID != 1 || results[0].VoteCount != 175 {
		t.Fatalf("option 1 must carry 175 shares, got %+v", results[0])
	}
	if results[1].VoteCount != 25 {
		t.Fatalf("option 2 must carry 25 shares, got %+v", results[1])
	}
	// Percentage is against all shares cast across options, 200 here.
	if results[0].Percentage != 87.5 {
		t.Fatalf("expected 87.5%%, got %v", results[0].Percentage)
	}
}

func TestMultipleChoiceTieBreakDeterminism(t *testing.T) {
	options := []resolution.Option{
		{ID: 1, OptionCode: "OPT_1", DisplayOrder: 2},
		{ID: 2, OptionCode: "OPT_2", DisplayOrder: 1},
	}
	votes := []vote.Vote{
		{ShareholderID: 1, VoteValue: "[1,2]", SharesUsed: 10},
	}

	e := NewEngine(Config{})
	for i := 0; i < 50; i++ {
		results := e.MultipleChoice(options, votes)
		if results[0].OptionID != 2 {
			t.Fatalf("tie must rank lower display order first, run %d: %+v", i, results)
		}
		if results[0].Rank != 1 || results[1].Rank != 2 {
			t.Fatalf("ranks must be sequential: %+v", results)
		}
	}
}

func TestRankingAverageRankUnweighted(t *testing.T) {
	candidates := []resolution.Candidate{
		{ID: 1, CandidateCode: "CAND_A", DisplayOrder: 1},
		{ID: 2, CandidateCode: "X", DisplayOrder: 2},
		{ID: 3, CandidateCode: "Y", DisplayOrder: 3},
	}
	// A 100-share voter ranks CAND_A first; a 10-share voter ranks it third.
	votes := []vote.Vote{
		{ShareholderID: 1, VoteValue: `{"CAND_A":1}`, SharesUsed: 100},
		{ShareholderID: 2, VoteValue: `{"X":1,"Y":2,"CAND_A":3}`, SharesUsed: 10},
	}

	results := NewEngine(Config{}).Ranking(candidates, votes)
	var a CandidateResult
	for _, r := range results {
		if r.CandidateCode == "CAND_A" {
			a = r
		}
	}
	if a.VoteCount != 2 {
		t.Fatalf("expected 2 ballots for CAND_A, got %d", a.VoteCount)
	}
	if a.AverageRank != 2.0 {
		t.Fatalf("average rank must be (1+3)/2=2.0 regardless of shares, got %v", a.AverageRank)
	}
	if a.RankDistribution[1] != 1 || a.RankDistribution[3] != 1 {
		t.Fatalf("rank histogram wrong: %v", a.RankDistribution)
	}
}

func TestRankingOrdering(t *testing.T) {
	candidates := []resolution.Candidate{
		{ID: 1, CandidateCode: "A", DisplayOrder: 1},
		{ID: 2, CandidateCode: "B", DisplayOrder: 2},
		{ID: 3, CandidateCode: "C", DisplayOrder: 3},
	}
	votes := []vote.Vote{
		{ShareholderID: 1, VoteValue: `{"A":1,"B":2}`, SharesUsed: 1},
		{ShareholderID: 2, VoteValue: `{"B":1,"A":2}`, SharesUsed: 1},
		{ShareholderID: 3, VoteValue: `{"A":1}`, SharesUsed: 1},
	}

	results := NewEngine(Config{}).Ranking(candidates, votes)
	// A: avg (1+2+1)/3 ≈ 1.33; B: avg (2+1)/2 = 1.5; C unranked, last.
	if results[0].CandidateCode != "A" || results[1].CandidateCode != "B" || results[2].CandidateCode != "C" {
		t.Fatalf("unexpected order: %+v", results)
	}
	if results[2].VoteCount != 0 || results[2].AverageRank != 0 {
		t.Fatalf("unranked candidate must zero out: %+v", results[2])
	}
	if results[0].Position != 1 || results[2].Position != 3 {
		t.Fatalf("positions must be sequential: %+v", results)
	}
}

func TestMeetingRollup(t *testing.T) {
	votes := []vote.Vote{
		{ShareholderID: 1, ResolutionID: 1},
		{ShareholderID: 1, ResolutionID: 2},
		{ShareholderID: 2, ResolutionID: 1},
	}
	stats := NewEngine(Config{}).Meeting(4, votes)
	if stats.TotalVotes != 3 {
		t.Fatalf("expected 3 votes, got %d", stats.TotalVotes)
	}
	if stats.TotalShareholders != 2 {
		t.Fatalf("expected 2 distinct shareholders, got %d", stats.TotalShareholders)
	}
	if stats.ParticipationRate != 50.0 {
		t.Fatalf("expected 50%% participation, got %v", stats.ParticipationRate)
	}

	empty := NewEngine(Config{}).Meeting(0, nil)
	if empty.ParticipationRate != 0 || empty.TotalVotes != 0 {
		t.Fatalf("empty meeting must zero out: %+v", empty)
	}
}
