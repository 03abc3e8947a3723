package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/api/validation"
	"github.com/huddle14/huddle/internal/project"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type projectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage"`
	CreatedAt   string  `json:"createdAt"`
}

func toProjectResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Percentage:  p.Percentage,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	svc *project.Service
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create handles POST /teams/{teamID}/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateProjectRequest(validation.ProjectRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.svc.CreateProject(r.Context(), identity.UserID, teamID, req.Name, req.Description)
	if err != nil {
		respondError(w, requestID, err, "failed to create project")
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p), requestID)
}

// List handles GET /teams/{teamID}/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}

	projects, err := h.svc.ListProjects(r.Context(), teamID)
	if err != nil {
		respondError(w, requestID, err, "failed to list projects")
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Get handles GET /teams/{teamID}/projects/{projectID}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(w, r, "projectID", requestID)
	if !ok {
		return
	}

	p, err := h.svc.GetProject(r.Context(), projectID)
	if err != nil {
		respondError(w, requestID, err, "failed to get project")
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Update handles PUT /teams/{teamID}/projects/{projectID}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateProjectRequest(validation.ProjectRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.svc.UpdateProject(r.Context(), identity.UserID, teamID, projectID, req.Name, req.Description); err != nil {
		respondError(w, requestID, err, "failed to update project")
		return
	}

	response.NoContent(w)
}
