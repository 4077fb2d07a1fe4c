package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pos-terminal/internal/auth"
	apperrors "github.com/spec-kit/pos-terminal/pkg/util"
)

const (
	claimsKey = "auth_claims"
	tokenKey  = "auth_token"
)

// Guard validates bearer tokens and rejects revoked ones. A rejected token
// is what the terminal perceives as the auth-expired condition.
type Guard struct {
	tokens   *auth.TokenManager
	denylist *auth.Denylist
}

// NewGuard constructs the middleware.
func NewGuard(tokens *auth.TokenManager, denylist *auth.Denylist) *Guard {
	return &Guard{tokens: tokens, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (g *Guard) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := g.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if g.denylist != nil && g.denylist.IsRevoked(c.UserContext(), parts[1]) {
		return apperrors.NewUnauthorized("token revoked")
	}

	c.Locals(claimsKey, claims)
	c.Locals(tokenKey, parts[1])
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated claims.
func ClaimsFromContext(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok
}

// TokenFromContext retrieves the raw bearer token.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(tokenKey).(string)
	return token, ok
}
