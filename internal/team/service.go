package team

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// Service provides team operations. Creation inserts the team and its
// OWNER membership in a single transaction.
type Service struct {
	db      database.Beginner
	teams   Repository
	members MemberRepository
	guard   *Guard
}

// NewService creates a new team Service.
func NewService(db database.Beginner, teams Repository, members MemberRepository, guard *Guard) *Service {
	return &Service{
		db:      db,
		teams:   teams,
		members: members,
		guard:   guard,
	}
}

// Create creates a team owned by the caller and registers the caller as
// its OWNER member.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name string) (*Team, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	t := &Team{Name: name, OwnerID: ownerID}
	if err := s.teams.WithTx(tx).Create(ctx, t); err != nil {
		return nil, err
	}

	m := &Member{TeamID: t.ID, UserID: ownerID, Role: RoleOwner}
	if err := s.members.WithTx(tx).Create(ctx, m); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing team creation: %w", err)
	}

	slog.Info("team created", "teamId", t.ID, "ownerId", ownerID)

	return t, nil
}

// Get retrieves a team by id.
func (s *Service) Get(ctx context.Context, teamID uuid.UUID) (*Team, error) {
	return s.teams.GetByID(ctx, teamID)
}

// ListForUser retrieves all teams the caller belongs to.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	return s.teams.ListForUser(ctx, userID)
}

// ListMembers retrieves the memberships of a team.
func (s *Service) ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	return s.members.ListByTeam(ctx, teamID)
}

// Delete removes a team. Only the owner may delete; dependent rows are
// removed by the store's cascade rules.
func (s *Service) Delete(ctx context.Context, callerID, teamID uuid.UUID) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}

	slog.Info("team deleted", "teamId", teamID)

	return nil
}
