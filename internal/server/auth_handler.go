package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pos-terminal/internal/auth"
	"github.com/spec-kit/pos-terminal/internal/repository"
	apperrors "github.com/spec-kit/pos-terminal/pkg/util"
)

// AuthHandler exposes the login and logout endpoints consumed by the
// terminal.
type AuthHandler struct {
	accounts repository.AccountRepository
	tokens   *auth.TokenManager
	denylist *auth.Denylist
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(accounts repository.AccountRepository, tokens *auth.TokenManager, denylist *auth.Denylist) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, denylist: denylist}
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. The response carries the bearer token
// under the capitalized key the terminal expects.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("userId and password required", nil)
	}

	account, err := h.accounts.GetByUserID(c.UserContext(), req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, _, err := h.tokens.GenerateToken(account.UserID, account.Name, account.Type)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"Token": token})
}

// Logout handles POST /auth/logout by revoking the presented token until
// its natural expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := TokenFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing token")
	}

	ttl := time.Minute
	if claims, ok := ClaimsFromContext(c); ok && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > ttl {
			ttl = remaining
		}
	}
	if h.denylist != nil {
		if err := h.denylist.Revoke(c.UserContext(), token, ttl); err != nil {
			return apperrors.MapError(err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
