package dto

import (
	"time"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// CreateTeamRequest payload for new teams.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   int64  `json:"manager_id"`
}

// UpdateTeamRequest patch payload; omitted fields stay unchanged.
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ManagerID   *int64  `json:"manager_id,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// MemberRequest identifies a membership mutation.
type MemberRequest struct {
	UserID int64 `json:"user_id"`
}

// TeamResponse is the team row shape returned to the UI.
type TeamResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ManagerID   int64     `json:"manager_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTeamResponse maps the domain team.
func NewTeamResponse(team domain.Team) TeamResponse {
	return TeamResponse{
		ID:          team.ID,
		Code:        team.Code,
		Name:        team.Name,
		Description: team.Description,
		ManagerID:   team.ManagerID,
		Active:      team.Active,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

// NewTeamResponses maps a slice of domain teams.
func NewTeamResponses(teams []domain.Team) []TeamResponse {
	out := make([]TeamResponse, len(teams))
	for i, team := range teams {
		out[i] = NewTeamResponse(team)
	}
	return out
}

// MemberResponse is the membership row shape.
type MemberResponse struct {
	ID       int64 `json:"id"`
	TeamID   int64 `json:"team_id"`
	MemberID int64 `json:"member_id"`
	Active   bool  `json:"active"`
}

// NewMemberResponses maps a slice of memberships.
func NewMemberResponses(members []domain.TeamMember) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, member := range members {
		out[i] = MemberResponse{
			ID:       member.ID,
			TeamID:   member.TeamID,
			MemberID: member.MemberID,
			Active:   member.Active,
		}
	}
	return out
}
