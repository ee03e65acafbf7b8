package api

import (
	"database/sql"
	"errors"
	"net/http"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/meeting"
	"agm-voting/internal/domain/operator"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/shareholder"
	"agm-voting/internal/domain/vote"
	"agm-voting/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var notAllowed *vote.NotAllowedError
	if errors.As(err, &notAllowed) {
		return apperr.Conflict(notAllowed.Reason, notAllowed.Error(), err)
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)

	case errors.Is(err, operator.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, operator.ErrInactive):
		return apperr.Unauthorized("inactive_operator", "operator is inactive", err)
	case errors.Is(err, operator.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)

	case errors.Is(err, meeting.ErrNotFound):
		return apperr.NotFound("meeting_not_found", "meeting not found", err)
	case errors.Is(err, meeting.ErrInvalidCode):
		return apperr.BadRequest("invalid_code_format", "meeting code must match [A-Z0-9_-]+", err)
	case errors.Is(err, meeting.ErrInvalidDates):
		return apperr.BadRequest("invalid_dates", "voting_end must be after voting_start", err)

	case errors.Is(err, shareholder.ErrNotFound):
		return apperr.NotFound("shareholder_not_found", "shareholder not found", err)
	case errors.Is(err, shareholder.ErrDuplicateCode):
		return apperr.Conflict("duplicate_holder_code", "holder code already registered for this meeting", err)
	case errors.Is(err, shareholder.ErrInvalidShares):
		return apperr.BadRequest("invalid_shares", "shares must be positive", err)

	case errors.Is(err, resolution.ErrNotFound):
		return apperr.NotFound("resolution_not_found", "resolution not found", err)
	case errors.Is(err, resolution.ErrInvalidCodeFormat):
		return apperr.BadRequest("invalid_code_format", "code must match [A-Z0-9_-]+", err)
	case errors.Is(err, resolution.ErrDuplicateCode):
		return apperr.Conflict("duplicate_code", "code already exists for this resolution", err)
	case errors.Is(err, resolution.ErrInvalidMethod):
		return apperr.BadRequest("invalid_voting_method", "invalid voting method", err)
	case errors.Is(err, resolution.ErrInvalidThreshold):
		return apperr.BadRequest("invalid_threshold", "approval threshold must be between 0 and 100", err)
	case errors.Is(err, resolution.ErrInvalidMaxChoices):
		return apperr.BadRequest("invalid_max_choices", "max choices must be at least 1", err)
	case errors.Is(err, resolution.ErrMethodMismatch):
		return apperr.BadRequest("method_mismatch", "operation does not match the resolution's voting method", err)
	case errors.Is(err, resolution.ErrMethodLocked):
		return apperr.Conflict("method_locked", "voting method cannot change once votes exist", err)
	case errors.Is(err, resolution.ErrHasVotes):
		return apperr.Conflict("has_votes", "votes already reference this entry", err)
	case errors.Is(err, resolution.ErrYesNoCodeRestrict):
		return apperr.BadRequest("invalid_option_code", "yes/no options are limited to YES, NO and ABSTAIN", err)
	case errors.Is(err, resolution.ErrInvalidStatus):
		return apperr.BadRequest("invalid_status", "invalid resolution status", err)

	case errors.Is(err, ballot.ErrInvalidChoice),
		errors.Is(err, ballot.ErrTooManyChoices),
		errors.Is(err, ballot.ErrEmptySelection),
		errors.Is(err, ballot.ErrDuplicateSelection),
		errors.Is(err, ballot.ErrDuplicateRank),
		errors.Is(err, ballot.ErrInvalidRankSequence),
		errors.Is(err, ballot.ErrMalformedValue),
		errors.Is(err, ballot.ErrUnknownMethod):
		return apperr.Unprocessable("invalid_ballot", err.Error(), err)

	case errors.Is(err, vote.ErrInvalidShares):
		return apperr.BadRequest("invalid_shares", "shares_used must be positive", err)

	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
