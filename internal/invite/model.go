package invite

import (
	"time"

	"github.com/google/uuid"
)

// Invite statuses. PENDING is the initial state; ACCEPTED and REJECTED
// are terminal.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Invite represents a row in the invites table: a pending offer of team
// membership to an email address.
type Invite struct {
	ID         uuid.UUID
	TeamID     uuid.UUID
	AuthorID   uuid.UUID
	GuestEmail string
	Status     string
	CreatedAt  time.Time
}

// GuestInvite is the guest-facing view of a pending invite, joined with
// the author and team names.
type GuestInvite struct {
	ID         uuid.UUID
	AuthorName *string
	TeamName   string
}
