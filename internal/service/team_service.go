package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// TeamService owns teams and memberships. Every mutation runs its guard
// checks and the write inside one transaction.
type TeamService struct {
	store      repository.TxRunner
	repos      repository.Repositories
	guard      TeamGuard
	dispatcher events.Dispatcher
}

// NewTeamService builds the service.
func NewTeamService(store repository.TxRunner, repos repository.Repositories, dispatcher events.Dispatcher) *TeamService {
	return &TeamService{store: store, repos: repos, dispatcher: dispatcher}
}

// CreateTeamInput carries the fields for a new team.
type CreateTeamInput struct {
	Name        string
	Description string
	ManagerID   int64
}

// CreateTeam validates the team invariants and allocates the next team
// code. On allocator collision the clock-derived fallback code is used.
func (s *TeamService) CreateTeam(ctx context.Context, actor domain.Subject, input CreateTeamInput) (*domain.Team, error) {
	if input.Name == "" {
		return nil, util.NewValidationError("team name required", nil)
	}

	team := &domain.Team{
		Name:        input.Name,
		Description: input.Description,
		ManagerID:   input.ManagerID,
		Active:      true,
		CreatedBy:   actorRef(actor),
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := s.guard.ValidateCreate(ctx, r, input.Name, input.ManagerID); err != nil {
			return err
		}
		codes, err := r.Teams.ListCodes(ctx)
		if err != nil {
			return err
		}
		code := domain.NextTeamCode(codes)
		exists, err := r.Teams.CodeExists(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			code = domain.FallbackTeamCode(time.Now())
		}
		if !domain.ValidTeamCode(code) {
			return util.NewIntegrity(fmt.Errorf("allocated team code %q", code))
		}
		team.Code = code
		return r.Teams.Create(ctx, team)
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTeamCreated, actor.ID, team.ID, map[string]any{"code": team.Code}))
	return team, nil
}

// UpdateTeamInput is the patch applied to an existing team. Nil fields are
// left unchanged.
type UpdateTeamInput struct {
	Name        *string
	Description *string
	ManagerID   *int64
	Active      *bool
}

// UpdateTeam applies the patch, re-running the guard for name and manager
// changes with the team's own row excluded.
func (s *TeamService) UpdateTeam(ctx context.Context, actor domain.Subject, teamID int64, input UpdateTeamInput) (*domain.Team, error) {
	var updated *domain.Team
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		team, err := r.Teams.GetByID(ctx, teamID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("team", nil)
			}
			return err
		}

		if input.Name != nil && *input.Name != team.Name {
			taken, err := r.Teams.NameTakenAmongActive(ctx, *input.Name, teamID)
			if err != nil {
				return err
			}
			if taken {
				return util.NewViolation(util.ViolationNameTaken, "team name already in use")
			}
			team.Name = *input.Name
		}
		if input.ManagerID != nil && *input.ManagerID != team.ManagerID {
			if err := s.guard.ValidateManagerChange(ctx, r, teamID, *input.ManagerID); err != nil {
				return err
			}
			team.ManagerID = *input.ManagerID
		}
		if input.Description != nil {
			team.Description = *input.Description
		}
		if input.Active != nil {
			team.Active = *input.Active
		}
		team.UpdatedBy = actorRef(actor)
		if err := r.Teams.Update(ctx, team); err != nil {
			return err
		}
		updated = team
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTeamUpdated, actor.ID, teamID, nil))
	return updated, nil
}

// DeleteTeam hard-deletes an empty team. Teams with active members refuse.
func (s *TeamService) DeleteTeam(ctx context.Context, actor domain.Subject, teamID int64) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Teams.GetByID(ctx, teamID); err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("team", nil)
			}
			return err
		}
		hasMembers, err := r.Teams.HasActiveMembers(ctx, teamID)
		if err != nil {
			return err
		}
		if hasMembers {
			return util.NewConflict("team has active members", nil)
		}
		return r.Teams.HardDelete(ctx, teamID)
	})
	if err != nil {
		return util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventTeamDeleted, actor.ID, teamID, nil))
	return nil
}

// AddMember attaches an agent to the team after the membership guard.
func (s *TeamService) AddMember(ctx context.Context, actor domain.Subject, teamID, userID int64) (*domain.TeamMember, error) {
	member := &domain.TeamMember{
		TeamID:    teamID,
		MemberID:  userID,
		CreatedBy: actorRef(actor),
	}
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := s.guard.ValidateMemberAdd(ctx, r, teamID, userID); err != nil {
			return err
		}
		return r.Teams.AddMember(ctx, member)
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventMemberAdded, actor.ID, teamID, map[string]any{"member_id": userID}))
	return member, nil
}

// RemoveMember deactivates a membership.
func (s *TeamService) RemoveMember(ctx context.Context, actor domain.Subject, teamID, userID int64) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Teams.DeactivateMember(ctx, teamID, userID, actorRef(actor)); err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("membership", nil)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventMemberRemoved, actor.ID, teamID, map[string]any{"member_id": userID}))
	return nil
}

// ListTeams returns teams per the page gate: without can_view_all a
// manager sees only the team they lead.
func (s *TeamService) ListTeams(ctx context.Context, actor domain.Subject) ([]domain.Team, error) {
	if !authz.CanViewAll(actor, authz.PageTeams) {
		managed, err := s.repos.Teams.ActiveTeamManagedBy(ctx, actor.ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if managed == nil {
			return []domain.Team{}, nil
		}
		return []domain.Team{*managed}, nil
	}
	teams, err := s.repos.Teams.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams, nil
}

// GetTeam returns one team with its active members.
func (s *TeamService) GetTeam(ctx context.Context, teamID int64) (*domain.Team, []domain.TeamMember, error) {
	team, err := s.repos.Teams.GetByID(ctx, teamID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, util.NewNotFound("team", nil)
		}
		return nil, nil, util.MapError(err)
	}
	members, err := s.repos.Teams.ActiveMembers(ctx, teamID)
	if err != nil {
		return nil, nil, util.MapError(err)
	}
	return team, members, nil
}

// AvailableManagers lists manager-roled users not leading an active team.
func (s *TeamService) AvailableManagers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repos.Teams.ListAvailableManagers(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// AvailableAgents lists agent-roled users free to join a team.
func (s *TeamService) AvailableAgents(ctx context.Context) ([]domain.User, error) {
	users, err := s.repos.Teams.ListAvailableAgents(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ManagedTeamScope resolves the membership of the team the subject leads,
// for row-level ticket decisions. Subjects leading no team get an empty
// scope.
func (s *TeamService) ManagedTeamScope(ctx context.Context, subject domain.Subject) (authz.TeamScope, error) {
	return managedTeamScope(ctx, s.repos, subject)
}

func managedTeamScope(ctx context.Context, r repository.Repositories, subject domain.Subject) (authz.TeamScope, error) {
	scope := authz.TeamScope{MemberIDs: map[int64]struct{}{}}
	if !subject.HasRole(domain.RoleManager) {
		return scope, nil
	}
	managed, err := r.Teams.ActiveTeamManagedBy(ctx, subject.ID)
	if err != nil {
		return scope, util.MapError(err)
	}
	if managed == nil {
		return scope, nil
	}
	members, err := r.Teams.ActiveMembers(ctx, managed.ID)
	if err != nil {
		return scope, util.MapError(err)
	}
	for _, member := range members {
		scope.MemberIDs[member.MemberID] = struct{}{}
	}
	return scope, nil
}
