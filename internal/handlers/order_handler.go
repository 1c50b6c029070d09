package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"
)

// OrderHandler handles HTTP requests for orders and checkout.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the order routes behind the auth middleware.
// Listing all orders and status transitions are admin-only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orders := router.Group("/orders", auth)
	orders.Get("/", h.HandleUserOrders)
	orders.Get("/all", admin, h.HandleAllOrders)
	orders.Post("/checkout", h.HandleCheckout)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Put("/:orderId/status", admin, h.HandleUpdateStatus)
}

// HandleUserOrders lists the caller's orders, most recent first.
func (h *OrderHandler) HandleUserOrders(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	orders, err := h.service.UserOrders(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleAllOrders lists one page of all orders.
func (h *OrderHandler) HandleAllOrders(c *fiber.Ctx) error {
	page, err := h.service.AllOrders(c.QueryInt("page", 0), c.QueryInt("size", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetOrder retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCheckout converts the caller's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	order, err := h.service.Checkout(identity.UserID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateStatus performs an admin status transition.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "status is required",
		})
	}

	order, err := h.service.UpdateStatus(c.Params("orderId"), models.OrderStatus(status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
