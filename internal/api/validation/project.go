package validation

import "strings"

// ProjectRequest mirrors the fields shared by create and update project validation.
type ProjectRequest struct {
	Name        string
	Description string
}

// ValidateProjectRequest validates the fields of a create or update
// project request.
func ValidateProjectRequest(req ProjectRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}
