package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

const subjectKey = "auth_subject"

// SubjectLoader resolves a user id to a Subject with its active role set.
type SubjectLoader interface {
	LoadSubject(ctx context.Context, userID int64) (domain.Subject, error)
}

// Middleware validates bearer tokens, checks the session registry and loads
// the Subject for downstream permission checks.
type Middleware struct {
	tokens         *TokenManager
	sessions       *SessionStore
	subjects       SubjectLoader
	bootstrapEmail string
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions *SessionStore, subjects SubjectLoader, bootstrapEmail string) *Middleware {
	return &Middleware{
		tokens:         tokens,
		sessions:       sessions,
		subjects:       subjects,
		bootstrapEmail: bootstrapEmail,
	}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewAuthFailed("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewAuthFailed("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewAuthFailed("invalid token")
	}

	alive, err := m.sessions.Alive(c.UserContext(), claims.SessionID)
	if err != nil {
		return util.MapError(err)
	}
	if !alive {
		return util.NewAuthFailed("session revoked")
	}

	if claims.SubjectID == domain.BootstrapAdminID {
		subject := domain.BootstrapAdmin(m.bootstrapEmail)
		c.Locals(subjectKey, subject)
		return c.Next()
	}

	subject, err := m.subjects.LoadSubject(c.UserContext(), claims.SubjectID)
	if err != nil {
		if util.IsKind(err, util.KindNotFound) {
			return util.NewAuthFailed("account not found")
		}
		return util.MapError(err)
	}
	c.Locals(subjectKey, subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(c *fiber.Ctx) (domain.Subject, bool) {
	val := c.Locals(subjectKey)
	if val == nil {
		return domain.Subject{}, false
	}
	subject, ok := val.(domain.Subject)
	return subject, ok
}
