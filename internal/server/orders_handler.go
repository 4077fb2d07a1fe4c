package server

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pos-terminal/internal/domain"
	"github.com/spec-kit/pos-terminal/internal/repository"
	apperrors "github.com/spec-kit/pos-terminal/pkg/util"
)

// OrdersHandler serves order creation.
type OrdersHandler struct {
	orders repository.OrderRepository
	menu   repository.MenuRepository
}

// NewOrdersHandler constructs the handler.
func NewOrdersHandler(orders repository.OrderRepository, menu repository.MenuRepository) *OrdersHandler {
	return &OrdersHandler{orders: orders, menu: menu}
}

type orderComponentRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type createOrderRequest struct {
	Details          string                  `json:"details"`
	Components       []orderComponentRequest `json:"components"`
	RequestingClient string                  `json:"requestingClient"`
	Table            string                  `json:"table"`
}

// Create handles POST /orders. Components are priced server-side from the
// menu; the response returns the generated order id and the computed
// price.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Table == "" {
		return apperrors.NewValidationError("table required", nil)
	}
	if len(req.Components) == 0 {
		return apperrors.NewValidationError("at least one component required", nil)
	}

	order := &domain.Order{
		ID:               uuid.NewString(),
		TableNumber:      req.Table,
		Details:          req.Details,
		RequestingClient: req.RequestingClient,
	}

	var total float64
	for _, component := range req.Components {
		item, err := h.menu.GetByID(c.UserContext(), component.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown menu item", fiber.Map{"id": component.ID})
			}
			return apperrors.MapError(err)
		}
		if !item.Available {
			return apperrors.NewValidationError("menu item unavailable", fiber.Map{"id": component.ID})
		}
		total += item.Price
		order.Components = append(order.Components, domain.OrderComponent{
			ItemID: item.ID,
			Kind:   item.Kind,
			Price:  item.Price,
		})
	}
	order.Price = math.Round(total*100) / 100

	if err := h.orders.Create(c.UserContext(), order); err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    order.ID,
		"price": order.Price,
	})
}
