package team

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrMemberNotFound is returned when a membership record is not found.
var ErrMemberNotFound = errors.New("member not found")

// ErrAlreadyMember is returned when inserting a duplicate (team, user) membership.
var ErrAlreadyMember = errors.New("user is already a team member")

// Repository provides operations on the teams table.
type Repository interface {
	WithTx(tx database.Tx) Repository
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberRepository provides operations on the members table.
type MemberRepository interface {
	WithTx(tx database.Tx) MemberRepository
	Create(ctx context.Context, member *Member) error
	Get(ctx context.Context, teamID, userID uuid.UUID) (*Member, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Member, error)
}
