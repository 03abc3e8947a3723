package team

import (
	"time"

	"github.com/google/uuid"
)

// Member roles. A team has exactly one OWNER, created with the team.
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// Team represents a row in the teams table.
type Team struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// Member represents a row in the members table, joining a user to a team.
type Member struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
}
