package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pos-terminal/internal/repository"
	apperrors "github.com/spec-kit/pos-terminal/pkg/util"
)

// UsersHandler serves the user-info endpoint the terminal uses to complete
// a partial identity.
type UsersHandler struct {
	accounts repository.AccountRepository
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(accounts repository.AccountRepository) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// GetProfile handles GET /users/:id. The payload deliberately uses the
// alternate field names (userId, username, role) the terminal folds back
// into its canonical user shape.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("user id required", nil)
	}

	account, err := h.accounts.GetByUserID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", fiber.Map{"id": id})
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"userId":   account.UserID,
		"username": account.Name,
		"role":     account.Type,
	})
}
