package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/huddle14/huddle/internal/database"
)

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	db database.DBTX
}

// NewRepository creates a new Repository backed by the given querier.
func NewRepository(db database.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx database.Tx) Repository {
	return &PostgresRepository{db: tx}
}

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, t.Name, t.OwnerID).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// ListForUser retrieves all teams the given user is a member of, ordered
// by creation time.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	query := `
		SELECT t.id, t.name, t.owner_id, t.created_at
		FROM teams t
		JOIN members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}

	return teams, nil
}

// Delete removes a team by its UUID. Members, invites, projects, tasks
// and sub-tasks are removed by ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// PostgresMemberRepository implements MemberRepository using pgx.
type PostgresMemberRepository struct {
	db database.DBTX
}

// NewMemberRepository creates a new MemberRepository backed by the given querier.
func NewMemberRepository(db database.DBTX) MemberRepository {
	return &PostgresMemberRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresMemberRepository) WithTx(tx database.Tx) MemberRepository {
	return &PostgresMemberRepository{db: tx}
}

// Create inserts a new membership record.
func (r *PostgresMemberRepository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, m.TeamID, m.UserID, m.Role).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyMember
		}
		return fmt.Errorf("inserting member: %w", err)
	}

	return nil
}

// Get retrieves the membership of a user in a team.
func (r *PostgresMemberRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*Member, error) {
	query := `
		SELECT id, team_id, user_id, role, created_at
		FROM members
		WHERE team_id = $1 AND user_id = $2`

	var m Member
	err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("querying member: %w", err)
	}

	return &m, nil
}

// ListByTeam retrieves all memberships of a team ordered by join time.
func (r *PostgresMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	query := `
		SELECT id, team_id, user_id, role, created_at
		FROM members
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	if members == nil {
		members = []Member{}
	}

	return members, nil
}
