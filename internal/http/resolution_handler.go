package api

import (
	"context"
	"encoding/json"
	"net/http"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/platform/apperr"
)

// resolutionRequest uses pointers for every partially-updatable numeric so
// an explicit zero (threshold 0 trivially approves) is distinguishable from
// an omitted field.
type resolutionRequest struct {
	ResolutionCode    string  `json:"resolution_code"`
	ResolutionNumber  int     `json:"resolution_number"`
	Title             string  `json:"title"`
	Content           *string `json:"content"`
	VotingMethod      string  `json:"voting_method"`
	ApprovalThreshold *int    `json:"approval_threshold"`
	MaxChoices        *int    `json:"max_choices"`
	IsActive          *bool   `json:"is_active"`
	DisplayOrder      *int    `json:"display_order"`
}

type resolutionStatusRequest struct {
	Status string `json:"status"`
}

type optionRequest struct {
	OptionCode   string `json:"option_code"`
	OptionValue  string `json:"option_value"`
	OptionText   string `json:"option_text"`
	DisplayOrder int    `json:"display_order"`
}

type candidateRequest struct {
	CandidateCode string  `json:"candidate_code"`
	CandidateName string  `json:"candidate_name"`
	CandidateInfo *string `json:"candidate_info"`
	DisplayOrder  int     `json:"display_order"`
}

func forceParam(r *http.Request) bool {
	return r.URL.Query().Get("force") == "true"
}

// @Summary     Create a resolution under a meeting
// @Tags        resolutions
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64              true  "Meeting ID"
// @Param       request  body  resolutionRequest  true  "Resolution"
// @Success     201  {object}  resolution.Resolution
// @Failure     400  {object}  map[string]string  "invalid body"
// @Router      /api/v1/meetings/{id}/resolutions [post]
func (h *Handler) handleCreateResolution(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	var req resolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	res := &resolution.Resolution{
		MeetingID:        meetingID,
		ResolutionCode:   req.ResolutionCode,
		ResolutionNumber: req.ResolutionNumber,
		Title:            req.Title,
		Content:          req.Content,
		VotingMethod:     ballot.Method(req.VotingMethod),
	}
	if req.ApprovalThreshold != nil {
		res.ApprovalThreshold = *req.ApprovalThreshold
	}
	if req.MaxChoices != nil {
		res.MaxChoices = *req.MaxChoices
	}
	if req.DisplayOrder != nil {
		res.DisplayOrder = *req.DisplayOrder
	}

	if err := h.resolutionSvc.Create(r.Context(), res); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// @Summary     List a meeting's resolutions
// @Tags        resolutions
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Meeting ID"
// @Success     200  {array}  resolution.Resolution
// @Router      /api/v1/meetings/{id}/resolutions [get]
func (h *Handler) handleListResolutions(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	resolutions, err := h.resolutionSvc.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolutions)
}

// @Summary     Get a resolution
// @Tags        resolutions
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {object}  resolution.Resolution
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/resolutions/{id} [get]
func (h *Handler) handleGetResolution(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, res)
}

// @Summary     Update a resolution
// @Tags        resolutions
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64              true  "Resolution ID"
// @Param       request  body  resolutionRequest  true  "Changes"
// @Success     200  {object}  resolution.Resolution
// @Failure     409  {object}  map[string]string  "voting method locked"
// @Router      /api/v1/resolutions/{id} [patch]
func (h *Handler) handleUpdateResolution(w http.ResponseWriter, r *http.Request) {
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

	var req resolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if req.Title != "" {
		res.Title = req.Title
	}
	if req.Content != nil {
		res.Content = req.Content
	}
	if req.VotingMethod != "" {
		res.VotingMethod = ballot.Method(req.VotingMethod)
	}
	if req.ApprovalThreshold != nil {
		res.ApprovalThreshold = *req.ApprovalThreshold
	}
	if req.MaxChoices != nil {
		res.MaxChoices = *req.MaxChoices
	}
	if req.IsActive != nil {
		res.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		res.DisplayOrder = *req.DisplayOrder
	}

	if err := h.resolutionSvc.Update(r.Context(), res); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary     Override a resolution's voting lifecycle
// @Tags        resolutions
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64                    true  "Resolution ID"
// @Param       request  body  resolutionStatusRequest  true  "OPEN, CLOSED or FINALIZED"
// @Success     204
// @Failure     400  {object}  map[string]string  "invalid status"
// @Router      /api/v1/resolutions/{id}/status [patch]
func (h *Handler) handleUpdateResolutionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	var req resolutionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.resolutionSvc.UpdateStatus(r.Context(), id, resolution.Status(req.Status)); err != nil {
		errorResponse(w, err)
		return
	}

	if resolution.Status(req.Status) == resolution.StatusFinalized {
		if err := h.freezeElection(r.Context(), id); err != nil {
			errorResponse(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// freezeElection stamps is_elected on the top maxChoices candidates of a
// finalized RANKING resolution, by the tally's deterministic final ordering.
func (h *Handler) freezeElection(ctx context.Context, resolutionID int64) error {
	res, err := h.resolutionSvc.Get(ctx, resolutionID)
	if err != nil {
		return err
	}
	if res.VotingMethod != ballot.MethodRanking {
		return nil
	}

	candidates, err := h.resolutionSvc.ListCandidates(ctx, resolutionID)
	if err != nil {
		return err
	}
	votes, err := h.voteSvc.ListByResolution(ctx, resolutionID)
	if err != nil {
		return err
	}

	seats := res.MaxChoices
	if seats < 1 {
		seats = 1
	}
	for _, row := range h.engine.Ranking(candidates, votes) {
		elected := row.Position <= seats && row.VoteCount > 0
		if err := h.resolutionSvc.SetElected(ctx, row.CandidateID, elected); err != nil {
			return err
		}
	}
	return nil
}

// @Summary     Delete a resolution
// @Tags        resolutions
// @Security    BearerAuth
// @Param       id     path   int64  true   "Resolution ID"
// @Param       force  query  bool   false  "Override the has-votes guard"
// @Success     204
// @Failure     409  {object}  map[string]string  "has votes"
// @Router      /api/v1/resolutions/{id} [delete]
func (h *Handler) handleDeleteResolution(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	if err := h.resolutionSvc.Delete(r.Context(), id, forceParam(r)); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Add an option to a resolution
// @Tags        registry
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64          true  "Resolution ID"
// @Param       request  body  optionRequest  true  "Option"
// @Success     201  {object}  resolution.Option
// @Failure     409  {object}  map[string]string  "duplicate code"
// @Router      /api/v1/resolutions/{id}/options [post]
func (h *Handler) handleCreateOption(w http.ResponseWriter, r *http.Request) {
	resolutionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	o, err := h.resolutionSvc.CreateOption(r.Context(), &resolution.Option{
		ResolutionID: resolutionID,
		OptionCode:   req.OptionCode,
		OptionValue:  req.OptionValue,
		OptionText:   req.OptionText,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// @Summary     List a resolution's options
// @Tags        registry
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {array}  resolution.Option
// @Router      /api/v1/resolutions/{id}/options [get]
func (h *Handler) handleListOptions(w http.ResponseWriter, r *http.Request) {
	resolutionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	options, err := h.resolutionSvc.ListOptions(r.Context(), resolutionID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// @Summary     Delete an option
// @Tags        registry
// @Security    BearerAuth
// @Param       id     path   int64  true   "Option ID"
// @Param       force  query  bool   false  "Override the has-votes guard"
// @Success     204
// @Failure     409  {object}  map[string]string  "has votes"
// @Router      /api/v1/options/{id} [delete]
func (h *Handler) handleDeleteOption(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid option id", err))
		return
	}

	if err := h.resolutionSvc.DeleteOption(r.Context(), id, forceParam(r)); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Add a candidate to a resolution
// @Tags        registry
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64             true  "Resolution ID"
// @Param       request  body  candidateRequest  true  "Candidate"
// @Success     201  {object}  resolution.Candidate
// @Failure     409  {object}  map[string]string  "duplicate code"
// @Router      /api/v1/resolutions/{id}/candidates [post]
func (h *Handler) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	resolutionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	c, err := h.resolutionSvc.CreateCandidate(r.Context(), &resolution.Candidate{
		ResolutionID:  resolutionID,
		CandidateCode: req.CandidateCode,
		CandidateName: req.CandidateName,
		CandidateInfo: req.CandidateInfo,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// @Summary     List a resolution's candidates
// @Tags        registry
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {array}  resolution.Candidate
// @Router      /api/v1/resolutions/{id}/candidates [get]
func (h *Handler) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resolutionID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid resolution id", err))
		return
	}

	candidates, err := h.resolutionSvc.ListCandidates(r.Context(), resolutionID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// @Summary     Delete a candidate
// @Tags        registry
// @Security    BearerAuth
// @Param       id     path   int64  true   "Candidate ID"
// @Param       force  query  bool   false  "Override the has-votes guard"
// @Success     204
// @Failure     409  {object}  map[string]string  "has votes"
// @Router      /api/v1/candidates/{id} [delete]
func (h *Handler) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid candidate id", err))
		return
	}

	if err := h.resolutionSvc.DeleteCandidate(r.Context(), id, forceParam(r)); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
