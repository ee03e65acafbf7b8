package api

import (
	"encoding/json"
	"net/http"

	"agm-voting/internal/domain/vote"
	"agm-voting/internal/metrics"
	"agm-voting/internal/platform/apperr"
	"agm-voting/internal/worker"
)

type castVoteRequest struct {
	ResolutionID  int64  `json:"resolution_id"`
	ShareholderID int64  `json:"shareholder_id"`
	VoteValue     string `json:"vote_value"`
	SharesUsed    int64  `json:"shares_used"`
}

// @Summary     Cast a ballot
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Param       request  body  castVoteRequest  true  "Ballot; vote_value pre-encoded per the resolution's voting method"
// @Success     201  {object}  vote.Vote
// @Failure     409  {object}  map[string]string  "already voted / window closed / inactive"
// @Failure     422  {object}  map[string]string  "malformed ballot"
// @Router      /api/v1/votes [post]
func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.ResolutionID == 0 || req.ShareholderID == 0 {
		errorResponse(w, apperr.BadRequest("invalid_input", "resolution_id and shareholder_id are required", nil))
		return
	}

	ip := clientIP(r)
	ua := r.UserAgent()
	cast := vote.CastRequest{
		ResolutionID:  req.ResolutionID,
		ShareholderID: req.ShareholderID,
		VoteValue:     req.VoteValue,
		SharesUsed:    req.SharesUsed,
	}
	if ip != "" {
		cast.IPAddress = &ip
	}
	if ua != "" {
		cast.UserAgent = &ua
	}

	v, err := h.voteSvc.Cast(r.Context(), cast)
	if err != nil {
		errorResponse(w, err)
		return
	}

	if res, err := h.resolutionSvc.Get(r.Context(), v.ResolutionID); err == nil {
		metrics.IncVoteCast(string(res.VotingMethod))
	}

	select {
	case h.voteCh <- worker.VoteEvent{ResolutionID: v.ResolutionID}:
	default:
	}

	writeJSON(w, http.StatusCreated, v)
}

// @Summary     Delete a vote (administrative override)
// @Tags        votes
// @Security    BearerAuth
// @Param       id  path  int64  true  "Vote ID"
// @Success     204
// @Router      /api/v1/votes/{id} [delete]
func (h *Handler) handleDeleteVote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid vote id", err))
		return
	}

	if err := h.voteSvc.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}
	slogLogger.Info("vote deleted", "vote_id", id, "operator_id", operatorIDFromCtx(r))
	w.WriteHeader(http.StatusNoContent)
}
