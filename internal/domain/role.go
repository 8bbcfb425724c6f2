package domain

import "time"

// RoleName enumerates operator roles.
type RoleName string

const (
	RoleAdmin   RoleName = "admin"
	RoleManager RoleName = "manager"
	RoleAgent   RoleName = "agent"
)

// Valid reports whether the role name is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// Role is a catalog row. Immutable in practice.
type Role struct {
	ID     int64
	Name   RoleName
	Active bool
}

// RoleAssignment links a user to a role. A user may carry several active
// assignments; the user row caches one of them as the primary role.
type RoleAssignment struct {
	ID        int64
	UserID    int64
	RoleID    int64
	Active    bool
	CreatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
