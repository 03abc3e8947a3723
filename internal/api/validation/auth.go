package validation

import "strings"

// GithubLoginRequest mirrors the fields needed for GitHub login validation.
type GithubLoginRequest struct {
	Code string
}

// ValidateGithubLoginRequest validates the fields of a GitHub login request.
func ValidateGithubLoginRequest(req GithubLoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Code) == "" {
		errs = append(errs, FieldError{Field: "code", Message: "code is required"})
	}

	return errs
}
