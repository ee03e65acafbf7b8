package api

import (
	"encoding/json"
	"net/http"

	"agm-voting/internal/platform/apperr"
)

type updateRoleRequest struct {
	Role string `json:"role"`
}

// @Summary     List operators
// @Tags        operators
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}   operator.Operator
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/operators [get]
func (h *Handler) handleListOperators(w http.ResponseWriter, r *http.Request) {
	ops, err := h.operatorSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

// @Summary     Update operator role
// @Tags        operators
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64              true  "Operator ID"
// @Param       request  body  updateRoleRequest  true  "New role"
// @Success     204
// @Failure     400  {object}  map[string]string  "invalid id or body"
// @Router      /api/v1/operators/{id}/role [patch]
func (h *Handler) handleUpdateOperatorRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid operator id", err))
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.operatorSvc.UpdateRole(r.Context(), id, req.Role); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_role", err.Error(), err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Deactivate an operator
// @Tags        operators
// @Security    BearerAuth
// @Param       id  path  int64  true  "Operator ID"
// @Success     204
// @Failure     400  {object}  map[string]string  "invalid id"
// @Router      /api/v1/operators/{id}/deactivate [patch]
func (h *Handler) handleDeactivateOperator(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid operator id", err))
		return
	}

	if err := h.operatorSvc.Deactivate(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
