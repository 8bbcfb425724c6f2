package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/config"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// UserService owns the user lifecycle: creation, mutation, role
// assignment and the conditional deletion policy.
type UserService struct {
	store      repository.TxRunner
	repos      repository.Repositories
	dispatcher events.Dispatcher
	bcryptCost int
	pwPolicy   config.PasswordConfig
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, store repository.TxRunner, repos repository.Repositories, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		store:      store,
		repos:      repos,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		pwPolicy:   cfg.Password,
	}
}

// CreateUserInput carries the fields for a new operator account.
type CreateUserInput struct {
	Name          string
	Email         string
	Password      string
	PrimaryRoleID int64
	NationalID    *string
}

// CreateUser registers a new account, writing the user row and its role
// assignment atomically. Email uniqueness is case-insensitive across all
// users, active or not.
func (s *UserService) CreateUser(ctx context.Context, actor domain.Subject, input CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, util.NewValidationError("name and email required", nil)
	}
	if err := auth.ValidatePasswordStrength(input.Password, s.pwPolicy.MinLength); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, util.MapError(err)
	}

	user := &domain.User{
		NationalID:    input.NationalID,
		Name:          input.Name,
		Email:         domain.NormalizeEmail(input.Email),
		PasswordHash:  hash,
		PrimaryRoleID: input.PrimaryRoleID,
		Active:        true,
		CreatedBy:     actorRef(actor),
	}

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		role, err := r.Roles.GetByID(ctx, input.PrimaryRoleID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewViolation(util.ViolationInvalidRole, "unknown role")
			}
			return err
		}
		if !role.Active {
			return util.NewViolation(util.ViolationInvalidRole, "role inactive")
		}
		taken, err := r.Users.EmailTaken(ctx, user.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return util.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return r.Roles.SetUserRoles(ctx, user.ID, []int64{input.PrimaryRoleID}, actorRef(actor))
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserCreated, actor.ID, user.ID, nil))
	return user, nil
}

// UpdateUserInput is the patch applied to an existing account. Nil fields
// are left unchanged.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	NationalID *string
	Active     *bool
}

// UpdateUser applies the patch after the row-level edit refinement: admins
// edit anyone, managers themselves and agents, agents only themselves.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Subject, userID int64, input UpdateUserInput) (*domain.User, error) {
	var updated *domain.User
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("user", nil)
			}
			return err
		}
		targetRoles, err := r.Roles.ActiveRoleNames(ctx, userID)
		if err != nil {
			return err
		}
		if !authz.AllowsEditUser(actor, *user, targetRoles) {
			return util.NewForbidden("cannot edit this user")
		}

		if input.Email != nil {
			folded := domain.NormalizeEmail(*input.Email)
			taken, err := r.Users.EmailTaken(ctx, folded, userID)
			if err != nil {
				return err
			}
			if taken {
				return util.NewConflict("email already registered", map[string]any{"email": folded})
			}
			user.Email = folded
		}
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.NationalID != nil {
			user.NationalID = input.NationalID
		}
		if input.Active != nil {
			user.Active = *input.Active
		}
		user.UpdatedBy = actorRef(actor)
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserUpdated, actor.ID, userID, nil))
	return updated, nil
}

// UpdateRoles replaces the user's active role set. The user_role rows and
// the cached primary role column change in the same transaction: the
// effective set is always the active rows, the column is a cache.
func (s *UserService) UpdateRoles(ctx context.Context, actor domain.Subject, userID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return util.NewValidationError("at least one role required", nil)
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("user", nil)
			}
			return err
		}
		for _, roleID := range roleIDs {
			role, err := r.Roles.GetByID(ctx, roleID)
			if err != nil {
				if err == pgx.ErrNoRows {
					return util.NewViolation(util.ViolationInvalidRole, "unknown role")
				}
				return err
			}
			if !role.Active {
				return util.NewViolation(util.ViolationInvalidRole, "role inactive")
			}
		}
		if err := r.Roles.SetUserRoles(ctx, userID, roleIDs, actorRef(actor)); err != nil {
			return err
		}
		primaryStillActive := false
		for _, roleID := range roleIDs {
			if roleID == user.PrimaryRoleID {
				primaryStillActive = true
				break
			}
		}
		if !primaryStillActive {
			user.PrimaryRoleID = roleIDs[0]
		}
		user.UpdatedBy = actorRef(actor)
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventRolesChanged, actor.ID, userID, nil))
	return nil
}

// DeleteUser applies the conditional deletion policy and reports the mode:
// refuse while the user manages a team or is an active member, soft-delete
// when the user authored anything, hard-delete otherwise.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Subject, userID int64) (domain.DeletionMode, error) {
	var mode domain.DeletionMode
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.GetByID(ctx, userID); err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("user", nil)
			}
			return err
		}

		managed, err := r.Teams.ActiveTeamManagedBy(ctx, userID)
		if err != nil {
			return err
		}
		if managed != nil {
			return util.NewProtectedAsManager("user manages an active team")
		}
		membership, err := r.Teams.ActiveMembershipFor(ctx, userID)
		if err != nil {
			return err
		}
		if membership != nil {
			return util.NewProtectedAsMember("user is an active team member")
		}

		hasActivity, err := r.Users.HasActivity(ctx, userID)
		if err != nil {
			return err
		}
		if hasActivity {
			mode = domain.DeletionSoft
			return r.Users.SoftDelete(ctx, userID, actorRef(actor))
		}
		mode = domain.DeletionHard
		return r.Users.HardDelete(ctx, userID)
	})
	if err != nil {
		return "", util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserDeleted, actor.ID, userID, map[string]any{"mode": string(mode)}))
	return mode, nil
}

// GetUser returns one user, restricted to the subject's own row when the
// page grants no can_view_all.
func (s *UserService) GetUser(ctx context.Context, actor domain.Subject, page authz.Page, userID int64) (*domain.User, error) {
	if !authz.CanViewAll(actor, page) && actor.ID != userID {
		return nil, util.NewForbidden("restricted to own record")
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.MapError(err)
	}
	return user, nil
}

// ListForPage lists the accounts a page shows: all users on the user page,
// manager-roled users on the manager page, agent-roled users on the agent
// page. Without can_view_all the list collapses to the subject's own row.
func (s *UserService) ListForPage(ctx context.Context, actor domain.Subject, page authz.Page) ([]domain.User, error) {
	if !authz.CanViewAll(actor, page) {
		user, err := s.repos.Users.GetByID(ctx, actor.ID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return []domain.User{}, nil
			}
			return nil, util.MapError(err)
		}
		return []domain.User{*user}, nil
	}

	var (
		users []domain.User
		err   error
	)
	switch page {
	case authz.PageManagers:
		users, err = s.repos.Users.ListByRole(ctx, domain.RoleManager)
	case authz.PageAgents:
		users, err = s.repos.Users.ListByRole(ctx, domain.RoleAgent)
	default:
		users, err = s.repos.Users.List(ctx)
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// RoleNamesFor exposes a user's active role set for handlers.
func (s *UserService) RoleNamesFor(ctx context.Context, userID int64) ([]domain.RoleName, error) {
	names, err := s.repos.Roles.ActiveRoleNames(ctx, userID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return names, nil
}

// RoleAssignments returns every role assignment row of the user, inactive
// ones included, for the user page's role editor. Same row restriction as
// GetUser.
func (s *UserService) RoleAssignments(ctx context.Context, actor domain.Subject, userID int64) ([]domain.RoleAssignment, error) {
	if !authz.CanViewAll(actor, authz.PageUsers) && actor.ID != userID {
		return nil, util.NewForbidden("restricted to own record")
	}
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.MapError(err)
	}
	assignments, err := s.repos.Roles.Assignments(ctx, userID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if assignments == nil {
		assignments = []domain.RoleAssignment{}
	}
	return assignments, nil
}

func actorRef(actor domain.Subject) *int64 {
	if actor.IsBootstrap() {
		return nil
	}
	id := actor.ID
	return &id
}
