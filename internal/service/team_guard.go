package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// TeamGuard re-verifies the team membership invariants inside the write
// transaction. UI pre-checks are advisory; these checks are authoritative.
type TeamGuard struct{}

// ValidateCreate checks a new team: unique active name, manager-roled
// active user, manager not already leading an active team.
func (TeamGuard) ValidateCreate(ctx context.Context, r repository.Repositories, name string, managerID int64) error {
	taken, err := r.Teams.NameTakenAmongActive(ctx, name, 0)
	if err != nil {
		return err
	}
	if taken {
		return util.NewViolation(util.ViolationNameTaken, "team name already in use")
	}
	if err := requireRole(ctx, r, managerID, domain.RoleManager, util.ViolationInvalidManagerRole); err != nil {
		return err
	}
	managed, err := r.Teams.ActiveTeamManagedBy(ctx, managerID)
	if err != nil {
		return err
	}
	if managed != nil {
		return util.NewViolation(util.ViolationManagerBusy, "manager already leads a team")
	}
	return nil
}

// ValidateManagerChange checks a manager swap on an existing team,
// excluding the team's own row so idempotent updates pass.
func (TeamGuard) ValidateManagerChange(ctx context.Context, r repository.Repositories, teamID, managerID int64) error {
	if err := requireRole(ctx, r, managerID, domain.RoleManager, util.ViolationInvalidManagerRole); err != nil {
		return err
	}
	managed, err := r.Teams.ActiveTeamManagedBy(ctx, managerID)
	if err != nil {
		return err
	}
	if managed != nil && managed.ID != teamID {
		return util.NewViolation(util.ViolationManagerBusy, "manager already leads a team")
	}
	members, err := r.Teams.ActiveMembers(ctx, teamID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member.MemberID == managerID {
			return util.NewViolation(util.ViolationManagerIsMember, "manager cannot be a member of the team")
		}
	}
	return nil
}

// ValidateMemberAdd checks a membership addition: agent-roled active user,
// not already a member of an active team, not the team's own manager.
func (TeamGuard) ValidateMemberAdd(ctx context.Context, r repository.Repositories, teamID, userID int64) error {
	team, err := r.Teams.GetByID(ctx, teamID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return util.NewNotFound("team", nil)
		}
		return err
	}
	if team.ManagerID == userID {
		return util.NewViolation(util.ViolationManagerIsMember, "manager cannot join own team as member")
	}
	if err := requireRole(ctx, r, userID, domain.RoleAgent, util.ViolationInvalidMemberRole); err != nil {
		return err
	}
	membership, err := r.Teams.ActiveMembershipFor(ctx, userID)
	if err != nil {
		return err
	}
	if membership != nil && membership.TeamID != teamID {
		return util.NewViolation(util.ViolationAgentBusy, "agent already belongs to a team")
	}
	return nil
}

func requireRole(ctx context.Context, r repository.Repositories, userID int64, role domain.RoleName, violation util.ViolationKind) error {
	user, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return util.NewViolation(violation, "user not found")
		}
		return err
	}
	if !user.Active {
		return util.NewViolation(violation, "user inactive")
	}
	names, err := r.Roles.ActiveRoleNames(ctx, userID)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == role {
			return nil
		}
	}
	return util.NewViolation(violation, "user lacks the "+string(role)+" role")
}
