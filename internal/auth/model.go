package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. Accounts are created on
// first OAuth login and keyed by email.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      *string // GitHub profiles may have no display name
	AvatarURL string
	CreatedAt time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID uuid.UUID
}
