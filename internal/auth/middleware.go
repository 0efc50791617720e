package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal is the caller identity carried by the bearer token. Entitlement
// is not part of it; handlers read the purchase flag fresh from the store.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// Middleware validates bearer tokens.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Required rejects requests without a valid token: a missing token is 401,
// a bad or expired one 403.
func (m *Middleware) Required(c *fiber.Ctx) error {
	raw, ok := bearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}
	principal, err := m.principal(raw)
	if err != nil {
		return apperrors.NewForbidden("invalid or expired token")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional attaches a principal when a valid token is present and lets the
// request through anonymously otherwise.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	if raw, ok := bearerToken(c); ok {
		if principal, err := m.principal(raw); err == nil {
			c.Locals(principalKey, principal)
		}
	}
	return c.Next()
}

func (m *Middleware) principal(raw string) (*Principal, error) {
	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: claims.ID, Email: claims.Email, Name: claims.Name}, nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
