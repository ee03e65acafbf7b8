package api

import (
	"encoding/json"
	"net/http"

	"agm-voting/internal/domain/shareholder"
	"agm-voting/internal/platform/apperr"
)

type shareholderRequest struct {
	HolderCode string  `json:"holder_code"`
	FullName   string  `json:"full_name"`
	Email      *string `json:"email"`
	Shares     int64   `json:"shares"`
}

// @Summary     Register a shareholder for a meeting
// @Tags        shareholders
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64               true  "Meeting ID"
// @Param       request  body  shareholderRequest  true  "Shareholder"
// @Success     201  {object}  shareholder.Shareholder
// @Failure     409  {object}  map[string]string  "duplicate holder code"
// @Router      /api/v1/meetings/{id}/shareholders [post]
func (h *Handler) handleCreateShareholder(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	var req shareholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	sh := &shareholder.Shareholder{
		MeetingID:  meetingID,
		HolderCode: req.HolderCode,
		FullName:   req.FullName,
		Email:      req.Email,
		Shares:     req.Shares,
	}

	if err := h.shareholderSvc.Create(r.Context(), sh); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

// @Summary     List a meeting's shareholders
// @Tags        shareholders
// @Security    BearerAuth
// @Produce     json
// @Param       id  path  int64  true  "Meeting ID"
// @Success     200  {array}  shareholder.Shareholder
// @Router      /api/v1/meetings/{id}/shareholders [get]
func (h *Handler) handleListShareholders(w http.ResponseWriter, r *http.Request) {
	meetingID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid meeting id", err))
		return
	}

	shareholders, err := h.shareholderSvc.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareholders)
}

// @Summary     Update a shareholder
// @Tags        shareholders
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64               true  "Shareholder ID"
// @Param       request  body  shareholderRequest  true  "Changes"
// @Success     200  {object}  shareholder.Shareholder
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/shareholders/{id} [patch]
func (h *Handler) handleUpdateShareholder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid shareholder id", err))
		return
	}

	sh, err := h.shareholderSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	var req shareholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if req.FullName != "" {
		sh.FullName = req.FullName
	}
	if req.Email != nil {
		sh.Email = req.Email
	}
	if req.Shares > 0 {
		sh.Shares = req.Shares
	}

	if err := h.shareholderSvc.Update(r.Context(), sh); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// @Summary     Delete a shareholder
// @Tags        shareholders
// @Security    BearerAuth
// @Param       id  path  int64  true  "Shareholder ID"
// @Success     204
// @Router      /api/v1/shareholders/{id} [delete]
func (h *Handler) handleDeleteShareholder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid shareholder id", err))
		return
	}

	if err := h.shareholderSvc.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
