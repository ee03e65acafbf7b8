package api

import (
	"encoding/json"
	"net/http"

	"agm-voting/internal/domain/meeting"
	"agm-voting/internal/platform/apperr"
)

type meetingRequest struct {
	MeetingCode       string  `json:"meeting_code"`
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	VotingStart       *string `json:"voting_start"`
	VotingEnd         *string `json:"voting_end"`
	TotalShareholders int64   `json:"total_shareholders"`
}

// @Summary     Create a meeting
// @Tags        meetings
// @Security    BearerAuth
// @Accept      json
// @Param       request  body  meetingRequest  true  "Meeting"
// @Success     201  {object}  meeting.Meeting
// @Failure     400  {object}  map[string]string  "invalid body"
// @Router      /api/v1/meetings [post]
func (h *Handler) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	m := &meeting.Meeting{
		MeetingCode:       req.MeetingCode,
		Title:             req.Title,
		Description:       req.Description,
		VotingStart:       parseTimePtr(req.VotingStart),
		VotingEnd:         parseTimePtr(req.VotingEnd),
		TotalShareholders: req.TotalShareholders,
	}

	if err := h.meetingSvc.Create(r.Context(), m); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// @Summary     List meetings
// @Tags        meetings
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}  meeting.Meeting
// @Router      /api/v1/meetings [get]
func (h *Handler) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetingSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}

// @Summary     Get a meeting
// @Tags        meetings
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Meeting ID"
// @Success     200  {object}  meeting.Meeting
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/meetings/{id} [get]
func (h *Handler) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	m, err := h.meetingSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary     Update a meeting
// @Tags        meetings
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64           true  "Meeting ID"
// @Param       request  body  meetingRequest  true  "Changes"
// @Success     200  {object}  meeting.Meeting
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/meetings/{id} [patch]
func (h *Handler) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	m, err := h.meetingSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if req.Title != "" {
		m.Title = req.Title
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if t := parseTimePtr(req.VotingStart); t != nil {
		m.VotingStart = t
	}
	if t := parseTimePtr(req.VotingEnd); t != nil {
		m.VotingEnd = t
	}
	if req.TotalShareholders > 0 {
		m.TotalShareholders = req.TotalShareholders
	}

	if err := h.meetingSvc.Update(r.Context(), m); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary     Delete a meeting
// @Tags        meetings
// @Security    BearerAuth
// @Param       id  path  int64  true  "Meeting ID"
// @Success     204
// @Router      /api/v1/meetings/{id} [delete]
func (h *Handler) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	if err := h.meetingSvc.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Meeting-level voting statistics
// @Tags        meetings
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Meeting ID"
// @Success     200  {object}  tally.MeetingStats
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/meetings/{id}/voting-statistics [get]
func (h *Handler) handleMeetingVotingStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	m, err := h.meetingSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	votes, err := h.voteSvc.ListByMeeting(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.engine.Meeting(m.TotalShareholders, votes))
}
