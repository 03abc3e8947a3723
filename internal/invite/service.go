package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/auth"
	"github.com/huddle14/huddle/internal/database"
	"github.com/huddle14/huddle/internal/team"
)

// ErrGuestNotRegistered is returned when the invited email has no account.
var ErrGuestNotRegistered = errors.New("guest has no account")

// ErrGuestAlreadyMember is returned when the invited email belongs to a
// current team member.
var ErrGuestAlreadyMember = errors.New("guest is already a team member")

// ErrInviteResolved is returned when accepting or rejecting an invite
// that has already been resolved. Terminal states are not reversible.
var ErrInviteResolved = errors.New("invite already resolved")

// ErrNotInviteGuest is returned when the caller's email does not match
// the invite's guest email.
var ErrNotInviteGuest = errors.New("invite is addressed to another user")

// Service drives the invite lifecycle: PENDING on creation, resolved
// exactly once to ACCEPTED or REJECTED.
type Service struct {
	db      database.Beginner
	invites Repository
	members team.MemberRepository
	users   auth.UserRepository
	guard   *team.Guard
}

// NewService creates a new invite Service.
func NewService(db database.Beginner, invites Repository, members team.MemberRepository, users auth.UserRepository, guard *team.Guard) *Service {
	return &Service{
		db:      db,
		invites: invites,
		members: members,
		users:   users,
		guard:   guard,
	}
}

// Create issues a PENDING invite for guestEmail to join the team. Only
// the team owner may invite; the guest must have an account, must not
// already be a member and must not already hold an unresolved invite.
func (s *Service) Create(ctx context.Context, callerID, teamID uuid.UUID, guestEmail string) (*Invite, error) {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return nil, err
	}

	guest, err := s.users.GetByEmail(ctx, guestEmail)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrGuestNotRegistered
		}
		return nil, err
	}

	_, err = s.members.Get(ctx, teamID, guest.ID)
	if err == nil {
		return nil, ErrGuestAlreadyMember
	}
	if !errors.Is(err, team.ErrMemberNotFound) {
		return nil, err
	}

	inv := &Invite{
		TeamID:     teamID,
		AuthorID:   callerID,
		GuestEmail: guestEmail,
	}
	if err := s.invites.Create(ctx, inv); err != nil {
		return nil, err
	}

	slog.Info("invite created", "inviteId", inv.ID, "teamId", teamID, "guestEmail", guestEmail)

	return inv, nil
}

// Accept resolves a PENDING invite to ACCEPTED and creates the MEMBER
// membership atomically. The caller's account email must match the
// invite's guest email.
func (s *Service) Accept(ctx context.Context, callerID, inviteID uuid.UUID) error {
	return s.resolve(ctx, callerID, inviteID, StatusAccepted)
}

// Reject resolves a PENDING invite to REJECTED. No membership is created.
func (s *Service) Reject(ctx context.Context, callerID, inviteID uuid.UUID) error {
	return s.resolve(ctx, callerID, inviteID, StatusRejected)
}

func (s *Service) resolve(ctx context.Context, callerID, inviteID uuid.UUID, status string) error {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inv, err := s.invites.WithTx(tx).GetForUpdate(ctx, inviteID)
	if err != nil {
		return err
	}

	if inv.GuestEmail != caller.Email {
		return ErrNotInviteGuest
	}

	if inv.Status != StatusPending {
		return ErrInviteResolved
	}

	if err := s.invites.WithTx(tx).UpdateStatus(ctx, inviteID, status); err != nil {
		return err
	}

	if status == StatusAccepted {
		m := &team.Member{TeamID: inv.TeamID, UserID: callerID, Role: team.RoleMember}
		if err := s.members.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing invite resolution: %w", err)
	}

	slog.Info("invite resolved", "inviteId", inviteID, "status", status)

	return nil
}

// Delete withdraws an invite. Only the team owner may withdraw, and only
// invites belonging to that team.
func (s *Service) Delete(ctx context.Context, callerID, teamID, inviteID uuid.UUID) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	return s.invites.Delete(ctx, inviteID, teamID)
}

// ListForTeam retrieves the invites of a team. Only the owner may list.
func (s *Service) ListForTeam(ctx context.Context, callerID, teamID uuid.UUID) ([]Invite, error) {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return nil, err
	}

	return s.invites.ListByTeam(ctx, teamID)
}

// ListForCaller retrieves the pending invites addressed to the caller's
// account email.
func (s *Service) ListForCaller(ctx context.Context, callerID uuid.UUID) ([]GuestInvite, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return s.invites.ListForGuest(ctx, caller.Email)
}
