package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/api/validation"
	"github.com/huddle14/huddle/internal/team"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type teamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsOwner   bool   `json:"isOwner"`
	CreatedAt string `json:"createdAt"`
}

type memberResponse struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func toTeamResponse(t *team.Team, callerIsOwner bool) teamResponse {
	return teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		IsOwner:   callerIsOwner,
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// TeamHandler handles team endpoints.
type TeamHandler struct {
	svc *team.Service
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc *team.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.svc.Create(r.Context(), identity.UserID, req.Name)
	if err != nil {
		respondError(w, requestID, err, "failed to create team")
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t, true), requestID)
}

// List handles GET /teams, returning the caller's teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teams, err := h.svc.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, requestID, err, "failed to list teams")
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i], teams[i].OwnerID == identity.UserID))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Get handles GET /teams/{teamID}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), teamID)
	if err != nil {
		respondError(w, requestID, err, "failed to get team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t, t.OwnerID == identity.UserID), requestID)
}

// ListMembers handles GET /teams/{teamID}/members.
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(r.Context(), teamID)
	if err != nil {
		respondError(w, requestID, err, "failed to list members")
		return
	}

	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, memberResponse{
			ID:     m.ID.String(),
			UserID: m.UserID.String(),
			Role:   m.Role,
		})
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Delete handles DELETE /teams/{teamID}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), identity.UserID, teamID); err != nil {
		respondError(w, requestID, err, "failed to delete team")
		return
	}

	response.NoContent(w)
}
