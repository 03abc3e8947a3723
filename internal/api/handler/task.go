package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/api/response"
	"github.com/huddle14/huddle/internal/api/validation"
	"github.com/huddle14/huddle/internal/project"
)

type taskRequest struct {
	MemberID    string   `json:"memberId"`
	Description string   `json:"description"`
	SubTasks    []string `json:"subTasks,omitempty"`
}

type subTasksRequest struct {
	SubTasks []string `json:"subTasks"`
}

type subTaskDoneRequest struct {
	IsDone bool `json:"isDone"`
}

type taskResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	MemberID    string  `json:"memberId"`
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage"`
	CreatedAt   string  `json:"createdAt"`
}

type taskWithAssigneeResponse struct {
	taskResponse
	AssigneeName      *string `json:"assigneeName"`
	AssigneeAvatarURL *string `json:"assigneeAvatarUrl"`
}

type subTaskResponse struct {
	ID          string `json:"id"`
	TaskID      string `json:"taskId"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
	CreatedAt   string `json:"createdAt"`
}

func toTaskResponse(t *project.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		MemberID:    t.MemberID.String(),
		Description: t.Description,
		Percentage:  t.Percentage,
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toSubTaskResponse(st *project.SubTask) subTaskResponse {
	return subTaskResponse{
		ID:          st.ID.String(),
		TaskID:      st.TaskID.String(),
		Description: st.Description,
		IsDone:      st.IsDone,
		CreatedAt:   st.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// TaskHandler handles task and sub-task endpoints.
type TaskHandler struct {
	svc *project.Service
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *project.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create handles POST /teams/{teamID}/projects/{projectID}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateTaskRequest(validation.TaskRequest{
		MemberID:    req.MemberID,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	memberID := uuid.MustParse(req.MemberID)

	t, err := h.svc.CreateTask(r.Context(), identity.UserID, teamID, projectID, memberID, req.Description, req.SubTasks)
	if err != nil {
		respondError(w, requestID, err, "failed to create task")
		return
	}

	response.Success(w, http.StatusCreated, toTaskResponse(t), requestID)
}

// List handles GET /teams/{teamID}/projects/{projectID}/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(w, r, "projectID", requestID)
	if !ok {
		return
	}

	tasks, err := h.svc.ListTasks(r.Context(), projectID)
	if err != nil {
		respondError(w, requestID, err, "failed to list tasks")
		return
	}

	items := make([]taskWithAssigneeResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskWithAssigneeResponse{
			taskResponse:      toTaskResponse(&tasks[i].Task),
			AssigneeName:      tasks[i].AssigneeName,
			AssigneeAvatarURL: tasks[i].AssigneeAvatarURL,
		})
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Get handles GET /teams/{teamID}/projects/{projectID}/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}

	t, err := h.svc.GetTask(r.Context(), taskID)
	if err != nil {
		respondError(w, requestID, err, "failed to get task")
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(t), requestID)
}

// Update handles PUT /teams/{teamID}/projects/{projectID}/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateTaskRequest(validation.TaskRequest{
		MemberID:    req.MemberID,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	memberID := uuid.MustParse(req.MemberID)

	if err := h.svc.UpdateTask(r.Context(), identity.UserID, teamID, projectID, taskID, memberID, req.Description); err != nil {
		respondError(w, requestID, err, "failed to update task")
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /teams/{teamID}/projects/{projectID}/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(r.Context(), identity.UserID, teamID, taskID); err != nil {
		respondError(w, requestID, err, "failed to delete task")
		return
	}

	response.NoContent(w)
}

// CreateSubTasks handles POST /teams/{teamID}/projects/{projectID}/tasks/{taskID}/subtasks.
func (h *TaskHandler) CreateSubTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req subTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSubTasksRequest(validation.SubTasksRequest{SubTasks: req.SubTasks})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.svc.CreateSubTasks(r.Context(), identity.UserID, teamID, taskID, req.SubTasks); err != nil {
		respondError(w, requestID, err, "failed to create sub-tasks")
		return
	}

	response.NoContent(w)
}

// ListSubTasks handles GET /teams/{teamID}/projects/{projectID}/tasks/{taskID}/subtasks.
func (h *TaskHandler) ListSubTasks(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}

	subTasks, err := h.svc.ListSubTasks(r.Context(), taskID)
	if err != nil {
		respondError(w, requestID, err, "failed to list sub-tasks")
		return
	}

	items := make([]subTaskResponse, 0, len(subTasks))
	for i := range subTasks {
		items = append(items, toSubTaskResponse(&subTasks[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// UpdateSubTask handles PATCH /teams/{teamID}/projects/{projectID}/tasks/{taskID}/subtasks/{subTaskID}.
func (h *TaskHandler) UpdateSubTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}
	subTaskID, ok := pathID(w, r, "subTaskID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req subTaskDoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if err := h.svc.SetSubTaskDone(r.Context(), identity.UserID, taskID, subTaskID, req.IsDone); err != nil {
		respondError(w, requestID, err, "failed to update sub-task")
		return
	}

	response.NoContent(w)
}

// DeleteSubTask handles DELETE /teams/{teamID}/projects/{projectID}/tasks/{taskID}/subtasks/{subTaskID}.
func (h *TaskHandler) DeleteSubTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := pathID(w, r, "teamID", requestID)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskID", requestID)
	if !ok {
		return
	}
	subTaskID, ok := pathID(w, r, "subTaskID", requestID)
	if !ok {
		return
	}

	if err := h.svc.DeleteSubTask(r.Context(), identity.UserID, teamID, taskID, subTaskID); err != nil {
		respondError(w, requestID, err, "failed to delete sub-task")
		return
	}

	response.NoContent(w)
}
