package project

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a row in the projects table. Percentage is derived
// from task percentages and never set directly by a client.
type Project struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Name        string
	Description string
	Percentage  float64
	CreatedAt   time.Time
}

// Task represents a row in the tasks table. Percentage is derived from
// sub-task completion.
type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	MemberID    uuid.UUID
	Description string
	Percentage  float64
	CreatedAt   time.Time
}

// TaskWithAssignee is a task joined with its assignee's profile for listing.
type TaskWithAssignee struct {
	Task
	AssigneeName      *string
	AssigneeAvatarURL *string
}

// SubTask represents a row in the sub_tasks table: the only entity whose
// completion state is set directly by a user.
type SubTask struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	Description string
	IsDone      bool
	CreatedAt   time.Time
}
