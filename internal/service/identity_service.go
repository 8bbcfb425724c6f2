package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/config"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// IdentityService authenticates credentials and manages sessions.
type IdentityService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokens     *auth.TokenManager
	sessions   *auth.SessionStore
	bcryptCost int
	pwPolicy   config.PasswordConfig
	bootstrap  config.AuthConfig
}

// IdentityDependencies encapsulates repo requirements for the identity service.
type IdentityDependencies struct {
	UserRepo repository.UserRepository
	RoleRepo repository.RoleRepository
	Sessions *auth.SessionStore
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		sessions:   deps.Sessions,
		bcryptCost: cfg.Auth.BcryptCost,
		pwPolicy:   cfg.Password,
		bootstrap:  cfg.Auth,
	}
}

// Authenticate verifies the credential pair and returns the subject with
// its active role set. The configured bootstrap admin pair is honored
// before any database lookup; inactive users fail.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (domain.Subject, error) {
	folded := domain.NormalizeEmail(email)

	if s.bootstrap.BootstrapAdminPass != "" &&
		folded == domain.NormalizeEmail(s.bootstrap.BootstrapAdminEmail) &&
		password == s.bootstrap.BootstrapAdminPass {
		return domain.BootstrapAdmin(s.bootstrap.BootstrapAdminEmail), nil
	}

	user, err := s.users.GetByEmail(ctx, folded)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Subject{}, util.NewAuthFailed("invalid credentials")
		}
		return domain.Subject{}, util.MapError(err)
	}
	if !user.Active {
		return domain.Subject{}, util.NewAuthFailed("account inactive")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return domain.Subject{}, util.NewAuthFailed("invalid credentials")
	}
	return s.subjectFor(ctx, user)
}

// Login authenticates and issues a session-bound token.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.Subject, string, time.Time, error) {
	subject, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return domain.Subject{}, "", time.Time{}, err
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Put(ctx, sessionID, subject.ID, s.tokens.SessionTTL()); err != nil {
		return domain.Subject{}, "", time.Time{}, util.MapError(err)
	}
	token, exp, err := s.tokens.GenerateToken(subject, sessionID)
	if err != nil {
		return domain.Subject{}, "", time.Time{}, util.MapError(err)
	}
	return subject, token, exp, nil
}

// Logout revokes the session behind the token.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return util.NewAuthFailed("invalid token")
	}
	return s.sessions.Revoke(ctx, claims.SessionID)
}

// LoadSubject resolves a user id to its subject. Implements auth.SubjectLoader.
func (s *IdentityService) LoadSubject(ctx context.Context, userID int64) (domain.Subject, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Subject{}, util.NewNotFound("user", nil)
		}
		return domain.Subject{}, util.MapError(err)
	}
	if !user.Active {
		return domain.Subject{}, util.NewAuthFailed("account inactive")
	}
	return s.subjectFor(ctx, user)
}

// ChangePassword verifies the current password, enforces the strength
// policy and rewrites the hash. Legacy digest rows migrate to bcrypt here.
func (s *IdentityService) ChangePassword(ctx context.Context, subject domain.Subject, currentPassword, newPassword string) error {
	if subject.IsBootstrap() {
		return util.NewForbidden("bootstrap admin password is configuration")
	}
	user, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		return util.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return util.NewAuthFailed("invalid credentials")
	}
	if err := auth.ValidatePasswordStrength(newPassword, s.pwPolicy.MinLength); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return util.MapError(err)
	}
	user.PasswordHash = hash
	user.UpdatedBy = &subject.ID
	if err := s.users.Update(ctx, user); err != nil {
		return util.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *IdentityService) subjectFor(ctx context.Context, user *domain.User) (domain.Subject, error) {
	roles, err := s.roles.ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return domain.Subject{}, util.MapError(err)
	}
	primary := domain.RoleName("")
	if role, err := s.roles.GetByID(ctx, user.PrimaryRoleID); err == nil {
		primary = role.Name
	}
	if primary == "" && len(roles) > 0 {
		primary = roles[0]
	}
	return domain.Subject{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		PrimaryRole: primary,
		Roles:       roles,
	}, nil
}
