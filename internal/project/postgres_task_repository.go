package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huddle14/huddle/internal/database"
)

// PostgresTaskRepository implements TaskRepository using pgx.
type PostgresTaskRepository struct {
	db database.DBTX
}

// NewTaskRepository creates a new TaskRepository backed by the given querier.
func NewTaskRepository(db database.DBTX) TaskRepository {
	return &PostgresTaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresTaskRepository) WithTx(tx database.Tx) TaskRepository {
	return &PostgresTaskRepository{db: tx}
}

// Create inserts a new task record.
func (r *PostgresTaskRepository) Create(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (project_id, member_id, description)
		VALUES ($1, $2, $3)
		RETURNING id, percentage, created_at`

	err := r.db.QueryRow(ctx, query, t.ProjectID, t.MemberID, t.Description).
		Scan(&t.ID, &t.Percentage, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetByID retrieves a single task by its UUID.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	query := `
		SELECT id, project_id, member_id, description, percentage, created_at
		FROM tasks
		WHERE id = $1`

	var t Task
	err := r.db.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.ProjectID, &t.MemberID, &t.Description, &t.Percentage, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return &t, nil
}

// ListByProject retrieves all tasks of a project joined with the
// assignee's profile, ordered by creation time.
func (r *PostgresTaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]TaskWithAssignee, error) {
	query := `
		SELECT t.id, t.project_id, t.member_id, t.description, t.percentage, t.created_at,
		       u.name, u.avatar_url
		FROM tasks t
		JOIN users u ON u.id = t.member_id
		WHERE t.project_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskWithAssignee
	for rows.Next() {
		var t TaskWithAssignee
		err := rows.Scan(&t.ID, &t.ProjectID, &t.MemberID, &t.Description, &t.Percentage, &t.CreatedAt,
			&t.AssigneeName, &t.AssigneeAvatarURL)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	if tasks == nil {
		tasks = []TaskWithAssignee{}
	}

	return tasks, nil
}

// Percentages retrieves the completion percentage of every task in a project.
func (r *PostgresTaskRepository) Percentages(ctx context.Context, projectID uuid.UUID) ([]float64, error) {
	query := `SELECT percentage FROM tasks WHERE project_id = $1`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying task percentages: %w", err)
	}
	defer rows.Close()

	var percentages []float64
	for rows.Next() {
		var pct float64
		if err := rows.Scan(&pct); err != nil {
			return nil, fmt.Errorf("scanning task percentage: %w", err)
		}
		percentages = append(percentages, pct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task percentages: %w", err)
	}

	return percentages, nil
}

// Update sets the assignee and description of a task within a project.
func (r *PostgresTaskRepository) Update(ctx context.Context, id, projectID, memberID uuid.UUID, description string) error {
	query := `UPDATE tasks SET member_id = $3, description = $4 WHERE id = $1 AND project_id = $2`

	result, err := r.db.Exec(ctx, query, id, projectID, memberID, description)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// Delete removes a task by its UUID. Sub-tasks are removed by cascade.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// SetPercentage persists a recomputed completion percentage and returns
// the id of the containing project for the upward cascade.
func (r *PostgresTaskRepository) SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) (uuid.UUID, error) {
	query := `UPDATE tasks SET percentage = $2 WHERE id = $1 RETURNING project_id`

	var projectID uuid.UUID
	err := r.db.QueryRow(ctx, query, id, percentage).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTaskNotFound
		}
		return uuid.Nil, fmt.Errorf("updating task percentage: %w", err)
	}

	return projectID, nil
}

// Lock acquires a row lock on the task for the remainder of the
// transaction, serializing concurrent sub-task mutations of the same task.
func (r *PostgresTaskRepository) Lock(ctx context.Context, id uuid.UUID) error {
	query := `SELECT id FROM tasks WHERE id = $1 FOR UPDATE`

	var locked uuid.UUID
	err := r.db.QueryRow(ctx, query, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("locking task: %w", err)
	}

	return nil
}

// TaskMemberID resolves the assigned member of a task for the
// authorization guard. A missing task is reported via found, not an error.
func (r *PostgresTaskRepository) TaskMemberID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, bool, error) {
	query := `SELECT member_id FROM tasks WHERE id = $1`

	var memberID uuid.UUID
	err := r.db.QueryRow(ctx, query, taskID).Scan(&memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("querying task assignee: %w", err)
	}

	return memberID, true, nil
}
