package validation

import (
	"strings"

	"github.com/google/uuid"
)

// TaskRequest mirrors the fields shared by create and update task validation.
type TaskRequest struct {
	MemberID    string
	Description string
}

// ValidateTaskRequest validates the fields of a create or update task request.
func ValidateTaskRequest(req TaskRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	}

	if req.MemberID == "" {
		errs = append(errs, FieldError{Field: "memberId", Message: "memberId is required"})
	} else if _, err := uuid.Parse(req.MemberID); err != nil {
		errs = append(errs, FieldError{Field: "memberId", Message: "memberId must be a valid UUID"})
	}

	return errs
}

// SubTasksRequest mirrors the fields needed for sub-task creation validation.
type SubTasksRequest struct {
	SubTasks []string
}

// ValidateSubTasksRequest validates the fields of a create sub-tasks request.
func ValidateSubTasksRequest(req SubTasksRequest) []FieldError {
	var errs []FieldError

	if len(req.SubTasks) == 0 {
		errs = append(errs, FieldError{Field: "subTasks", Message: "at least one sub-task is required"})
		return errs
	}

	for _, st := range req.SubTasks {
		if strings.TrimSpace(st) == "" {
			errs = append(errs, FieldError{Field: "subTasks", Message: "sub-task descriptions must not be empty"})
			break
		}
	}

	return errs
}
