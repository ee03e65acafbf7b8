package api

import (
	"fmt"
	"net/http"

	"agm-voting/internal/export"
	"agm-voting/internal/platform/apperr"
)

// @Summary     Export a resolution's votes as xlsx
// @Tags        results
// @Security    BearerAuth
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       id  path  int64  true  "Resolution ID"
// @Success     200  {file}  binary
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/resolutions/{id}/votes/export [get]
func (h *Handler) handleExportVotes(w http.ResponseWriter, r *http.Request) {
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

	data, err := export.VotesWorkbook(res, votes)
	if err != nil {
		errorResponse(w, apperr.Internal("export_failed", "failed to build workbook", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("votes_%s.xlsx", res.ResolutionCode)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
