package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// PostgresSubTaskRepository implements SubTaskRepository using pgx.
type PostgresSubTaskRepository struct {
	db database.DBTX
}

// NewSubTaskRepository creates a new SubTaskRepository backed by the given querier.
func NewSubTaskRepository(db database.DBTX) SubTaskRepository {
	return &PostgresSubTaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresSubTaskRepository) WithTx(tx database.Tx) SubTaskRepository {
	return &PostgresSubTaskRepository{db: tx}
}

// CreateMany inserts one sub-task per description under the given task.
func (r *PostgresSubTaskRepository) CreateMany(ctx context.Context, taskID uuid.UUID, descriptions []string) error {
	query := `
		INSERT INTO sub_tasks (task_id, description)
		SELECT $1, unnest($2::text[])`

	_, err := r.db.Exec(ctx, query, taskID, descriptions)
	if err != nil {
		return fmt.Errorf("inserting sub-tasks: %w", err)
	}

	return nil
}

// ListByTask retrieves all sub-tasks of a task, completed first.
func (r *PostgresSubTaskRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]SubTask, error) {
	query := `
		SELECT id, task_id, description, is_done, created_at
		FROM sub_tasks
		WHERE task_id = $1
		ORDER BY is_done DESC, created_at ASC`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing sub-tasks: %w", err)
	}
	defer rows.Close()

	var subTasks []SubTask
	for rows.Next() {
		var st SubTask
		err := rows.Scan(&st.ID, &st.TaskID, &st.Description, &st.IsDone, &st.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning sub-task row: %w", err)
		}
		subTasks = append(subTasks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-task rows: %w", err)
	}

	if subTasks == nil {
		subTasks = []SubTask{}
	}

	return subTasks, nil
}

// SetDone sets the completion flag of a sub-task. The update is scoped
// to the task so a sub-task id from another task is not found.
func (r *PostgresSubTaskRepository) SetDone(ctx context.Context, id, taskID uuid.UUID, isDone bool) error {
	query := `UPDATE sub_tasks SET is_done = $3 WHERE id = $1 AND task_id = $2`

	result, err := r.db.Exec(ctx, query, id, taskID, isDone)
	if err != nil {
		return fmt.Errorf("updating sub-task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubTaskNotFound
	}

	return nil
}

// Delete removes a sub-task, scoped to its task.
func (r *PostgresSubTaskRepository) Delete(ctx context.Context, id, taskID uuid.UUID) error {
	query := `DELETE FROM sub_tasks WHERE id = $1 AND task_id = $2`

	result, err := r.db.Exec(ctx, query, id, taskID)
	if err != nil {
		return fmt.Errorf("deleting sub-task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubTaskNotFound
	}

	return nil
}
