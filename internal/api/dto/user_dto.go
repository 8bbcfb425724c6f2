package dto

import (
	"time"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// CreateUserRequest payload for new operator accounts.
type CreateUserRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	PrimaryRoleID int64   `json:"primary_role_id"`
	NationalID    *string `json:"national_id,omitempty"`
}

// UpdateUserRequest patch payload; omitted fields stay unchanged.
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// UpdateRolesRequest replaces the active role set.
type UpdateRolesRequest struct {
	RoleIDs []int64 `json:"role_ids"`
}

// UserResponse is the user row shape returned to the UI.
type UserResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	NationalID    *string   `json:"national_id,omitempty"`
	PrimaryRoleID int64     `json:"primary_role_id"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUserResponse maps the domain user.
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		NationalID:    user.NationalID,
		PrimaryRoleID: user.PrimaryRoleID,
		Active:        user.Active,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// RoleAssignmentResponse is one role assignment row, active or not.
type RoleAssignmentResponse struct {
	RoleID    int64     `json:"role_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRoleAssignmentResponses maps the assignment rows.
func NewRoleAssignmentResponses(assignments []domain.RoleAssignment) []RoleAssignmentResponse {
	out := make([]RoleAssignmentResponse, len(assignments))
	for i, a := range assignments {
		out[i] = RoleAssignmentResponse{
			RoleID:    a.RoleID,
			Active:    a.Active,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
	}
	return out
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = NewUserResponse(user)
	}
	return out
}
