package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/api/validation"
	"github.com/huddle14/huddle/internal/auth"
)

type githubLoginRequest struct {
	Code string `json:"code"`
}

type githubLoginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles the GitHub OAuth login endpoint.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/github.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req githubLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateGithubLoginRequest(validation.GithubLoginRequest{Code: req.Code})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	token, err := h.svc.LoginWithGithub(r.Context(), req.Code)
	if err != nil {
		respondError(w, requestID, err, "github login failed")
		return
	}

	response.Success(w, http.StatusCreated, githubLoginResponse{Token: token}, requestID)
}
