package project

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// ErrProjectNotFound is returned when a project record is not found.
var ErrProjectNotFound = errors.New("project not found")

// ErrTaskNotFound is returned when a task record is not found.
var ErrTaskNotFound = errors.New("task not found")

// ErrSubTaskNotFound is returned when a sub-task record is not found.
var ErrSubTaskNotFound = errors.New("sub-task not found")

// ProjectRepository provides operations on the projects table.
type ProjectRepository interface {
	WithTx(tx database.Tx) ProjectRepository
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Project, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) error
	SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) error
	Lock(ctx context.Context, id uuid.UUID) error
}

// TaskRepository provides operations on the tasks table.
type TaskRepository interface {
	WithTx(tx database.Tx) TaskRepository
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]TaskWithAssignee, error)
	Percentages(ctx context.Context, projectID uuid.UUID) ([]float64, error)
	Update(ctx context.Context, id, projectID, memberID uuid.UUID, description string) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetPercentage(ctx context.Context, id uuid.UUID, percentage float64) (projectID uuid.UUID, err error)
	Lock(ctx context.Context, id uuid.UUID) error
	TaskMemberID(ctx context.Context, taskID uuid.UUID) (memberID uuid.UUID, found bool, err error)
}

// SubTaskRepository provides operations on the sub_tasks table.
type SubTaskRepository interface {
	WithTx(tx database.Tx) SubTaskRepository
	CreateMany(ctx context.Context, taskID uuid.UUID, descriptions []string) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]SubTask, error)
	SetDone(ctx context.Context, id, taskID uuid.UUID, isDone bool) error
	Delete(ctx context.Context, id, taskID uuid.UUID) error
}
