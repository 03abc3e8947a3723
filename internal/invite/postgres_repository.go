package invite

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

// Create inserts a new PENDING invite. The partial unique index on
// (team_id, guest_email) rejects a second unresolved invite.
func (r *PostgresRepository) Create(ctx context.Context, inv *Invite) error {
	query := `
		INSERT INTO invites (team_id, author_id, guest_email)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at`

	err := r.db.QueryRow(ctx, query, inv.TeamID, inv.AuthorID, inv.GuestEmail).
		Scan(&inv.ID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInvite
		}
		return fmt.Errorf("inserting invite: %w", err)
	}

	return nil
}

// GetByID retrieves a single invite by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Invite, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an invite and locks its row for the remainder
// of the transaction.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Invite, error) {
	return r.get(ctx, id, true)
}

func (r *PostgresRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*Invite, error) {
	query := `
		SELECT id, team_id, author_id, guest_email, status, created_at
		FROM invites
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var inv Invite
	err := r.db.QueryRow(ctx, query, id).
		Scan(&inv.ID, &inv.TeamID, &inv.AuthorID, &inv.GuestEmail, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("querying invite: %w", err)
	}

	return &inv, nil
}

// UpdateStatus sets the status of an invite.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE invites SET status = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("updating invite status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// Delete removes an invite, scoped to its team so an id from another
// team is treated as not found.
func (r *PostgresRepository) Delete(ctx context.Context, id, teamID uuid.UUID) error {
	query := `DELETE FROM invites WHERE id = $1 AND team_id = $2`

	result, err := r.db.Exec(ctx, query, id, teamID)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// ListByTeam retrieves all invites of a team ordered by creation time.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Invite, error) {
	query := `
		SELECT id, team_id, author_id, guest_email, status, created_at
		FROM invites
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	var invites []Invite
	for rows.Next() {
		var inv Invite
		err := rows.Scan(&inv.ID, &inv.TeamID, &inv.AuthorID, &inv.GuestEmail, &inv.Status, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}

	if invites == nil {
		invites = []Invite{}
	}

	return invites, nil
}

// ListForGuest retrieves the pending invites addressed to an email,
// joined with the author and team names for display.
func (r *PostgresRepository) ListForGuest(ctx context.Context, guestEmail string) ([]GuestInvite, error) {
	query := `
		SELECT i.id, u.name, t.name
		FROM invites i
		JOIN users u ON u.id = i.author_id
		JOIN teams t ON t.id = i.team_id
		WHERE i.guest_email = $1 AND i.status = 'PENDING'
		ORDER BY i.created_at ASC`

	rows, err := r.db.Query(ctx, query, guestEmail)
	if err != nil {
		return nil, fmt.Errorf("listing guest invites: %w", err)
	}
	defer rows.Close()

	var invites []GuestInvite
	for rows.Next() {
		var inv GuestInvite
		err := rows.Scan(&inv.ID, &inv.AuthorName, &inv.TeamName)
		if err != nil {
			return nil, fmt.Errorf("scanning guest invite row: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating guest invite rows: %w", err)
	}

	if invites == nil {
		invites = []GuestInvite{}
	}

	return invites, nil
}
