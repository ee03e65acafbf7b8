package api

import (
	"net/http"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/tally"
	"agm-voting/internal/metrics"
	"agm-voting/internal/platform/apperr"
)

type votingResultsResponse struct {
	Resolution      *resolution.Resolution `json:"resolution"`
	Summary         any                    `json:"summary"`
	DetailedResults any                    `json:"detailed_results"`
}

type yesNoDetailRow struct {
	OptionCode string  `json:"option_code"`
	OptionText string  `json:"option_text"`
	Shares     int64   `json:"shares"`
	Percentage float64 `json:"percentage"`
}

type resolutionStatisticsResponse struct {
	TotalOptions          int     `json:"total_options,omitempty"`
	TotalCandidates       int     `json:"total_candidates,omitempty"`
	TotalVotes            int     `json:"total_votes"`
	AverageVotesPerOption float64 `json:"average_votes_per_option"`
	TopOption             any     `json:"top_option,omitempty"`
	TopCandidate          any     `json:"top_candidate,omitempty"`
}

// @Summary     Tally a resolution
// @Tags        results
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {object}  votingResultsResponse
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/resolutions/{id}/voting-results [get]
func (h *Handler) handleVotingResults(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	res, err := h.resolutionSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	votes, err := h.voteSvc.ListByResolution(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	resp := votingResultsResponse{Resolution: res}

	switch res.VotingMethod {
	case ballot.MethodYesNo:
		summary := h.engine.YesNo(res.ApprovalThreshold, votes)
		resp.Summary = summary
		resp.DetailedResults = yesNoDetails(summary)
	case ballot.MethodMultipleChoice:
		options, err := h.resolutionSvc.ListOptions(r.Context(), id)
		if err != nil {
			errorResponse(w, err)
			return
		}
		rows := h.engine.MultipleChoice(options, votes)
		resp.Summary = topN(rows, 3)
		resp.DetailedResults = rows
	case ballot.MethodRanking:
		candidates, err := h.resolutionSvc.ListCandidates(r.Context(), id)
		if err != nil {
			errorResponse(w, err)
			return
		}
		rows := h.engine.Ranking(candidates, votes)
		resp.Summary = rows
		resp.DetailedResults = rankDistributions(rows)
	}

	metrics.IncTallyRun(string(res.VotingMethod))
	writeJSON(w, http.StatusOK, resp)
}

// @Summary     Registry statistics for a resolution
// @Tags        results
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {object}  resolutionStatisticsResponse
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/resolutions/{id}/statistics [get]
func (h *Handler) handleResolutionStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	res, err := h.resolutionSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	votes, err := h.voteSvc.ListByResolution(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	stats := resolutionStatisticsResponse{TotalVotes: len(votes)}

	if res.VotingMethod == ballot.MethodRanking {
		candidates, err := h.resolutionSvc.ListCandidates(r.Context(), id)
		if err != nil {
			errorResponse(w, err)
			return
		}
		stats.TotalCandidates = len(candidates)
		if len(candidates) > 0 {
			stats.AverageVotesPerOption = float64(len(votes)) / float64(len(candidates))
		}
		if rows := h.engine.Ranking(candidates, votes); len(rows) > 0 {
			stats.TopCandidate = rows[0]
		}
	} else {
		options, err := h.resolutionSvc.ListOptions(r.Context(), id)
		if err != nil {
			errorResponse(w, err)
			return
		}
		stats.TotalOptions = len(options)
		if len(options) > 0 {
			stats.AverageVotesPerOption = float64(len(votes)) / float64(len(options))
		}
		if res.VotingMethod == ballot.MethodMultipleChoice {
			if rows := h.engine.MultipleChoice(options, votes); len(rows) > 0 {
				stats.TopOption = rows[0]
			}
		} else if summary := h.engine.YesNo(res.ApprovalThreshold, votes); summary.TotalBallots > 0 {
			details := yesNoDetails(summary)
			stats.TopOption = details[0]
			for _, d := range details {
				if d.Shares > stats.TopOption.(yesNoDetailRow).Shares {
					stats.TopOption = d
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

func yesNoDetails(s tally.YesNoResult) []yesNoDetailRow {
	rows := []yesNoDetailRow{
		{OptionCode: ballot.ChoiceYes, OptionText: "Đồng ý", Shares: s.YesShares},
		{OptionCode: ballot.ChoiceNo, OptionText: "Không đồng ý", Shares: s.NoShares},
		{OptionCode: ballot.ChoiceAbstain, OptionText: "Trắng/Bỏ phiếu", Shares: s.AbstainShares},
	}
	for i := range rows {
		if s.TotalSharesVoted > 0 {
			rows[i].Percentage = float64(rows[i].Shares) * 100.0 / float64(s.TotalSharesVoted)
		}
	}
	return rows
}

func topN(rows []tally.OptionResult, n int) []tally.OptionResult {
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}

func rankDistributions(rows []tally.CandidateResult) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"candidate_code":    row.CandidateCode,
			"candidate_name":    row.CandidateName,
			"rank_distribution": row.RankDistribution,
		})
	}
	return out
}
