package validation

import "strings"

// CreateInviteRequest mirrors the fields needed for create invite validation.
type CreateInviteRequest struct {
	GuestEmail string
}

// ValidateCreateInviteRequest validates the fields of a create invite request.
func ValidateCreateInviteRequest(req CreateInviteRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.GuestEmail)
	if email == "" {
		errs = append(errs, FieldError{Field: "guestEmail", Message: "guestEmail is required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, FieldError{Field: "guestEmail", Message: "guestEmail must be a valid email address"})
	}

	return errs
}
