package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotTeamOwner is returned when the caller is not the owner of the team.
var ErrNotTeamOwner = errors.New("caller is not the team owner")

// ErrNotTaskAssignee is returned when the caller is not the member
// assigned to the task. A missing task yields the same error: the
// assignee check deliberately does not reveal whether the task exists.
var ErrNotTaskAssignee = errors.New("caller is not the task assignee")

// TaskAssignees resolves the assigned member of a task. Implemented by
// the project repository; found is false when the task does not exist.
type TaskAssignees interface {
	TaskMemberID(ctx context.Context, taskID uuid.UUID) (memberID uuid.UUID, found bool, err error)
}

// Guard holds the two authorization predicates gating every mutating
// operation: team ownership and task assignment. Both are pure reads.
type Guard struct {
	teams Repository
	tasks TaskAssignees
}

// NewGuard creates a new Guard.
func NewGuard(teams Repository, tasks TaskAssignees) *Guard {
	return &Guard{teams: teams, tasks: tasks}
}

// VerifyTeamOwner succeeds only if the team exists and the caller owns
// it. Returns ErrTeamNotFound for a missing team and ErrNotTeamOwner
// for any other caller.
func (g *Guard) VerifyTeamOwner(ctx context.Context, callerID, teamID uuid.UUID) error {
	t, err := g.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if t.OwnerID != callerID {
		return ErrNotTeamOwner
	}

	return nil
}

// VerifyTaskAssignee succeeds only if the task exists and its assigned
// member is the caller. Both a missing task and a foreign assignee
// return ErrNotTaskAssignee.
func (g *Guard) VerifyTaskAssignee(ctx context.Context, callerID, taskID uuid.UUID) error {
	memberID, found, err := g.tasks.TaskMemberID(ctx, taskID)
	if err != nil {
		return err
	}

	if !found || memberID != callerID {
		return ErrNotTaskAssignee
	}

	return nil
}
