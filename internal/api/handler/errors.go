package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/auth"
	"github.com/huddle14/huddle/internal/invite"
	"github.com/huddle14/huddle/internal/project"
	"github.com/huddle14/huddle/internal/team"
)

// respondError maps domain sentinel errors to their API representation.
// Unknown errors are logged and surfaced as 500.
func respondError(w http.ResponseWriter, requestID string, err error, logMsg string) {
	switch {
	case errors.Is(err, team.ErrTeamNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.Is(err, project.ErrProjectNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project not found", requestID)
	case errors.Is(err, project.ErrTaskNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Task not found", requestID)
	case errors.Is(err, project.ErrSubTaskNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Sub-task not found", requestID)
	case errors.Is(err, invite.ErrInviteNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Invite not found", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
	case errors.Is(err, team.ErrNotTeamOwner):
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "You do not have permission to perform this action", requestID)
	case errors.Is(err, team.ErrNotTaskAssignee):
		// Covers a missing task as well; the two cases are deliberately
		// indistinguishable to the caller.
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You cannot perform this action", requestID)
	case errors.Is(err, invite.ErrNotInviteGuest):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "This invite is addressed to another user", requestID)
	case errors.Is(err, invite.ErrGuestNotRegistered):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "This user has no account", requestID)
	case errors.Is(err, invite.ErrGuestAlreadyMember), errors.Is(err, team.ErrAlreadyMember):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "This user is already a team member", requestID)
	case errors.Is(err, invite.ErrDuplicateInvite):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "This user has already been invited", requestID)
	case errors.Is(err, project.ErrAssigneeNotMember):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "Assignee is not a team member", requestID)
	case errors.Is(err, project.ErrNoSubTasks):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "At least one sub-task is required", requestID)
	case errors.Is(err, auth.ErrNoVerifiedEmail):
		response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "GitHub account must expose an email address", requestID)
	case errors.Is(err, invite.ErrInviteResolved):
		response.Err(w, http.StatusConflict, "CONFLICT", "Invite has already been resolved", requestID)
	default:
		slog.Error(logMsg, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
	}
}

// pathID parses a UUID route parameter, writing a 400 response on failure.
func pathID(w http.ResponseWriter, r *http.Request, param, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", param+" must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
