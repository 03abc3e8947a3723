package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huddle14/huddle/internal/database"
)

// PostgresProjectRepository implements ProjectRepository using pgx.
type PostgresProjectRepository struct {
	db database.DBTX
}

// NewProjectRepository creates a new ProjectRepository backed by the given querier.
func NewProjectRepository(db database.DBTX) ProjectRepository {
	return &PostgresProjectRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresProjectRepository) WithTx(tx database.Tx) ProjectRepository {
	return &PostgresProjectRepository{db: tx}
}

// Create inserts a new project record.
func (r *PostgresProjectRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (team_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, percentage, created_at`

	err := r.db.QueryRow(ctx, query, p.TeamID, p.Name, p.Description).
		Scan(&p.ID, &p.Percentage, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project by its UUID.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, team_id, name, description, percentage, created_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := r.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.TeamID, &p.Name, &p.Description, &p.Percentage, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	return &p, nil
}

// ListByTeam retrieves all projects of a team, newest first.
func (r *PostgresProjectRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Project, error) {
	query := `
		SELECT id, team_id, name, description, percentage, created_at
		FROM projects
		WHERE team_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Description, &p.Percentage, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	if projects == nil {
		projects = []Project{}
	}

	return projects, nil
}

// Update sets the name and description of a project.
func (r *PostgresProjectRepository) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	query := `UPDATE projects SET name = $2, description = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, name, description)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// SetPercentage persists a recomputed completion percentage.
func (r *PostgresProjectRepository) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) error {
	query := `UPDATE projects SET percentage = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, percentage)
	if err != nil {
		return fmt.Errorf("updating project percentage: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// Lock acquires a row lock on the project for the remainder of the
// transaction, serializing concurrent recomputes of the same project.
func (r *PostgresProjectRepository) Lock(ctx context.Context, id uuid.UUID) error {
	query := `SELECT id FROM projects WHERE id = $1 FOR UPDATE`

	var locked uuid.UUID
	err := r.db.QueryRow(ctx, query, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("locking project: %w", err)
	}

	return nil
}
