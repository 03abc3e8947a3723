package invite

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// ErrInviteNotFound is returned when an invite record is not found.
var ErrInviteNotFound = errors.New("invite not found")

// ErrDuplicateInvite is returned when the guest already has an
// unresolved invite for the team.
var ErrDuplicateInvite = errors.New("guest already has a pending invite")

// Repository provides operations on the invites table.
type Repository interface {
	WithTx(tx database.Tx) Repository
	Create(ctx context.Context, invite *Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invite, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Invite, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id, teamID uuid.UUID) error
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Invite, error)
	ListForGuest(ctx context.Context, guestEmail string) ([]GuestInvite, error)
}
