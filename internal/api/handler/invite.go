package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/api/validation"
	"github.com/huddle14/huddle/internal/invite"
)

type createInviteRequest struct {
	GuestEmail string `json:"guestEmail"`
}

type inviteResponse struct {
	ID         string `json:"id"`
	GuestEmail string `json:"guestEmail"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

type guestInviteResponse struct {
	ID         string  `json:"id"`
	AuthorName *string `json:"authorName"`
	TeamName   string  `json:"teamName"`
}

func toInviteResponse(inv *invite.Invite) inviteResponse {
	return inviteResponse{
		ID:         inv.ID.String(),
		GuestEmail: inv.GuestEmail,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// InviteHandler handles invite lifecycle endpoints.
type InviteHandler struct {
	svc *invite.Service
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(svc *invite.Service) *InviteHandler {
	return &InviteHandler{svc: svc}
}

// Create handles POST /teams/{teamID}/invites.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateInviteRequest(validation.CreateInviteRequest{GuestEmail: req.GuestEmail})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	inv, err := h.svc.Create(r.Context(), identity.UserID, teamID, req.GuestEmail)
	if err != nil {
		respondError(w, requestID, err, "failed to create invite")
		return
	}

	response.Success(w, http.StatusCreated, toInviteResponse(inv), requestID)
}

// ListForTeam handles GET /teams/{teamID}/invites.
func (h *InviteHandler) ListForTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	invites, err := h.svc.ListForTeam(r.Context(), identity.UserID, teamID)
	if err != nil {
		respondError(w, requestID, err, "failed to list team invites")
		return
	}

	items := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		items = append(items, toInviteResponse(&invites[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// ListForCaller handles GET /invites, returning the caller's pending invites.
func (h *InviteHandler) ListForCaller(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	invites, err := h.svc.ListForCaller(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, requestID, err, "failed to list invites")
		return
	}

	items := make([]guestInviteResponse, 0, len(invites))
	for _, inv := range invites {
		items = append(items, guestInviteResponse{
			ID:         inv.ID.String(),
			AuthorName: inv.AuthorName,
			TeamName:   inv.TeamName,
		})
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Accept handles PATCH /invites/{inviteID}/accept.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	inviteID, ok := pathID(w, r, "inviteID", requestID)
	if !ok {
		return
	}

	if err := h.svc.Accept(r.Context(), identity.UserID, inviteID); err != nil {
		respondError(w, requestID, err, "failed to accept invite")
		return
	}

	response.NoContent(w)
}

// Reject handles PATCH /invites/{inviteID}/reject.
func (h *InviteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	inviteID, ok := pathID(w, r, "inviteID", requestID)
	if !ok {
		return
	}

	if err := h.svc.Reject(r.Context(), identity.UserID, inviteID); err != nil {
		respondError(w, requestID, err, "failed to reject invite")
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /teams/{teamID}/invites/{inviteID}.
func (h *InviteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}
	inviteID, ok := pathID(w, r, "inviteID", requestID)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), identity.UserID, teamID, inviteID); err != nil {
		respondError(w, requestID, err, "failed to delete invite")
		return
	}

	response.NoContent(w)
}
