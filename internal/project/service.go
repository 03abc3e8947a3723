package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
	"github.com/huddle14/huddle/internal/team"
)

// ErrAssigneeNotMember is returned when a task is assigned to a user who
// is not a member of the team.
var ErrAssigneeNotMember = errors.New("assignee is not a team member")

// ErrNoSubTasks is returned when a sub-task creation request carries an
// empty list.
var ErrNoSubTasks = errors.New("at least one sub-task is required")

// Service provides project, task and sub-task operations. Every mutation
// that changes the leaf set or leaf state runs in one transaction with
// the percentage recompute cascade.
type Service struct {
	db       database.Beginner
	projects ProjectRepository
	tasks    TaskRepository
	subTasks SubTaskRepository
	members  team.MemberRepository
	guard    *team.Guard
	agg      *Aggregator
}

// NewService creates a new project Service.
func NewService(db database.Beginner, projects ProjectRepository, tasks TaskRepository, subTasks SubTaskRepository, members team.MemberRepository, guard *team.Guard, agg *Aggregator) *Service {
	return &Service{
		db:       db,
		projects: projects,
		tasks:    tasks,
		subTasks: subTasks,
		members:  members,
		guard:    guard,
		agg:      agg,
	}
}

// CreateProject creates a project under the team. Owner only.
func (s *Service) CreateProject(ctx context.Context, callerID, teamID uuid.UUID, name, description string) (*Project, error) {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return nil, err
	}

	p := &Project{TeamID: teamID, Name: name, Description: description}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("project created", "projectId", p.ID, "teamId", teamID)

	return p, nil
}

// GetProject retrieves a project by id.
func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (*Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

// ListProjects retrieves all projects of a team.
func (s *Service) ListProjects(ctx context.Context, teamID uuid.UUID) ([]Project, error) {
	return s.projects.ListByTeam(ctx, teamID)
}

// UpdateProject sets a project's name and description. Owner only.
// Percentage is not writable here; only the aggregator maintains it.
func (s *Service) UpdateProject(ctx context.Context, callerID, teamID, projectID uuid.UUID, name, description string) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	return s.projects.Update(ctx, projectID, name, description)
}

// CreateTask creates a task, optionally with initial sub-tasks, and
// recomputes percentages so the new task dilutes the project average.
// Owner only; the assignee must be a member of the team.
func (s *Service) CreateTask(ctx context.Context, callerID, teamID, projectID, memberID uuid.UUID, description string, subTasks []string) (*Task, error) {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return nil, err
	}

	if _, err := s.members.Get(ctx, teamID, memberID); err != nil {
		if errors.Is(err, team.ErrMemberNotFound) {
			return nil, ErrAssigneeNotMember
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	t := &Task{ProjectID: projectID, MemberID: memberID, Description: description}
	if err := s.tasks.WithTx(tx).Create(ctx, t); err != nil {
		return nil, err
	}

	if len(subTasks) > 0 {
		if err := s.subTasks.WithTx(tx).CreateMany(ctx, t.ID, subTasks); err != nil {
			return nil, err
		}
	}

	// A fresh task is at 0% either way; recomputing the project pulls
	// the new task into the average.
	if err := s.agg.RecomputeProject(ctx, tx, projectID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing task creation: %w", err)
	}

	slog.Info("task created", "taskId", t.ID, "projectId", projectID, "memberId", memberID)

	return t, nil
}

// GetTask retrieves a task by id.
func (s *Service) GetTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// ListTasks retrieves all tasks of a project with assignee profiles.
func (s *Service) ListTasks(ctx context.Context, projectID uuid.UUID) ([]TaskWithAssignee, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// UpdateTask sets a task's assignee and description. Owner only; the new
// assignee must be a member of the team.
func (s *Service) UpdateTask(ctx context.Context, callerID, teamID, projectID, taskID, memberID uuid.UUID, description string) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	if _, err := s.members.Get(ctx, teamID, memberID); err != nil {
		if errors.Is(err, team.ErrMemberNotFound) {
			return ErrAssigneeNotMember
		}
		return err
	}

	return s.tasks.Update(ctx, taskID, projectID, memberID, description)
}

// DeleteTask removes a task and recomputes the project percentage in the
// same transaction, so the remaining tasks define the new average. Owner only.
func (s *Service) DeleteTask(ctx context.Context, callerID, teamID, taskID uuid.UUID) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	t, err := s.tasks.WithTx(tx).GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.WithTx(tx).Delete(ctx, taskID); err != nil {
		return err
	}

	if err := s.agg.RecomputeProject(ctx, tx, t.ProjectID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing task deletion: %w", err)
	}

	slog.Info("task deleted", "taskId", taskID, "projectId", t.ProjectID)

	return nil
}

// CreateSubTasks appends sub-tasks to a task and recomputes percentages.
// Owner only; the list must not be empty.
func (s *Service) CreateSubTasks(ctx context.Context, callerID, teamID, taskID uuid.UUID, descriptions []string) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	if len(descriptions) == 0 {
		return ErrNoSubTasks
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.tasks.WithTx(tx).Lock(ctx, taskID); err != nil {
		return err
	}

	if err := s.subTasks.WithTx(tx).CreateMany(ctx, taskID, descriptions); err != nil {
		return err
	}

	if err := s.agg.RecomputeTask(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sub-task creation: %w", err)
	}

	return nil
}

// ListSubTasks retrieves all sub-tasks of a task.
func (s *Service) ListSubTasks(ctx context.Context, taskID uuid.UUID) ([]SubTask, error) {
	return s.subTasks.ListByTask(ctx, taskID)
}

// SetSubTaskDone toggles a sub-task's completion flag and recomputes
// percentages. Only the task's assignee may toggle; a missing task is
// reported the same as a foreign assignee.
func (s *Service) SetSubTaskDone(ctx context.Context, callerID, taskID, subTaskID uuid.UUID, isDone bool) error {
	if err := s.guard.VerifyTaskAssignee(ctx, callerID, taskID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.tasks.WithTx(tx).Lock(ctx, taskID); err != nil {
		return err
	}

	if err := s.subTasks.WithTx(tx).SetDone(ctx, subTaskID, taskID, isDone); err != nil {
		return err
	}

	if err := s.agg.RecomputeTask(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sub-task update: %w", err)
	}

	return nil
}

// DeleteSubTask removes a sub-task and recomputes percentages. Owner only.
func (s *Service) DeleteSubTask(ctx context.Context, callerID, teamID, taskID, subTaskID uuid.UUID) error {
	if err := s.guard.VerifyTeamOwner(ctx, callerID, teamID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.tasks.WithTx(tx).Lock(ctx, taskID); err != nil {
		return err
	}

	if err := s.subTasks.WithTx(tx).Delete(ctx, subTaskID, taskID); err != nil {
		return err
	}

	if err := s.agg.RecomputeTask(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sub-task deletion: %w", err)
	}

	return nil
}
