package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/config"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

func identityConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            4,
			BootstrapAdminEmail:   "root@fixtop.local",
			BootstrapAdminPass:    "bootstrap-pass",
		},
		Password: config.PasswordConfig{MinLength: 8},
	}
}

func newIdentityService(s *fakeState) *IdentityService {
	repos := fakeRepos(s)
	return NewIdentityService(identityConfig(), IdentityDependencies{
		UserRepo: repos.Users,
		RoleRepo: repos.Roles,
		Sessions: auth.NewSessionStore(nil),
	})
}

func seedCredential(s *fakeState, email, password string, roleID int64, active bool) *domain.User {
	user := s.addUser("user", email, roleID, active)
	hash, _ := auth.HashPassword(password, 4)
	user.PasswordHash = hash
	return user
}

func TestAuthenticateFoldsEmail(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	subject, err := svc.Authenticate(ctx, "  AGENT@Fixtop.LOCAL ", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, "agent@fixtop.local", subject.Email)
	assert.Equal(t, domain.RoleAgent, subject.PrimaryRole)
	assert.Equal(t, []domain.RoleName{domain.RoleAgent}, subject.Roles)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	_, err := svc.Authenticate(ctx, "agent@fixtop.local", "wrong")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	state := newFakeState()
	svc := newIdentityService(state)
	_, err := svc.Authenticate(context.Background(), "nobody@fixtop.local", "x")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	seedCredential(state, "gone@fixtop.local", "Str0ng!Pass", 3, false)

	svc := newIdentityService(state)
	_, err := svc.Authenticate(ctx, "gone@fixtop.local", "Str0ng!Pass")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestAuthenticateLegacyDigest(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := state.addUser("legacy", "legacy@fixtop.local", 3, true)
	sum := sha256.Sum256([]byte("migrated-secret"))
	user.PasswordHash = hex.EncodeToString(sum[:])

	svc := newIdentityService(state)
	subject, err := svc.Authenticate(ctx, "legacy@fixtop.local", "migrated-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject.ID)
}

func TestAuthenticateBootstrapPair(t *testing.T) {
	state := newFakeState()
	svc := newIdentityService(state)

	subject, err := svc.Authenticate(context.Background(), "ROOT@fixtop.local", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, subject.IsBootstrap())
	assert.True(t, subject.IsAdmin())

	_, err = svc.Authenticate(context.Background(), "root@fixtop.local", "wrong")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestLoginIssuesParseableToken(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	subject, token, _, err := svc.Login(ctx, "agent@fixtop.local", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestLogoutRejectsGarbageToken(t *testing.T) {
	state := newFakeState()
	svc := newIdentityService(state)
	err := svc.Logout(context.Background(), "not-a-token")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestLoadSubject(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	subject, err := svc.LoadSubject(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject.ID)
	assert.Equal(t, []domain.RoleName{domain.RoleAgent}, subject.Roles)

	_, err = svc.LoadSubject(ctx, 999)
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestLoadSubjectInactive(t *testing.T) {
	state := newFakeState()
	user := seedCredential(state, "gone@fixtop.local", "Str0ng!Pass", 3, false)

	svc := newIdentityService(state)
	_, err := svc.LoadSubject(context.Background(), user.ID)
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestChangePassword(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := state.addUser("legacy", "legacy@fixtop.local", 3, true)
	sum := sha256.Sum256([]byte("Old!Secret9x"))
	user.PasswordHash = hex.EncodeToString(sum[:])

	svc := newIdentityService(state)
	subject := domain.Subject{ID: user.ID, Roles: []domain.RoleName{domain.RoleAgent}}

	require.NoError(t, svc.ChangePassword(ctx, subject, "Old!Secret9x", "New!Secret7y"))

	// The legacy digest is rewritten as bcrypt.
	stored := state.users[user.ID]
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "New!Secret7y"))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	subject := domain.Subject{ID: user.ID}
	err := svc.ChangePassword(ctx, subject, "wrong", "New!Secret7y")
	assert.True(t, util.IsKind(err, util.KindAuthFailed))
}

func TestChangePasswordWeakReplacement(t *testing.T) {
	state := newFakeState()
	ctx := context.Background()
	user := seedCredential(state, "agent@fixtop.local", "Str0ng!Pass", 3, true)

	svc := newIdentityService(state)
	subject := domain.Subject{ID: user.ID}
	err := svc.ChangePassword(ctx, subject, "Str0ng!Pass", "weak")
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestChangePasswordBootstrapForbidden(t *testing.T) {
	state := newFakeState()
	svc := newIdentityService(state)
	err := svc.ChangePassword(context.Background(), domain.BootstrapAdmin("root@fixtop.local"), "a", "b")
	assert.True(t, util.IsKind(err, util.KindForbidden))
}
