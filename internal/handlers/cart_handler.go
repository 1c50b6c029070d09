package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/middleware"
	"shopapi/internal/services"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes mounts the cart routes behind the auth middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cart := router.Group("/cart", auth)
	cart.Get("/", h.HandleGetCart)
	cart.Get("/total", h.HandleCartTotal)
	cart.Get("/count", h.HandleCartCount)
	cart.Post("/add", h.HandleAddToCart)
	cart.Delete("/clear", h.HandleClearCart)
	cart.Put("/:cartItemId", h.HandleUpdateItem)
	cart.Delete("/:cartItemId", h.HandleRemoveItem)
}

// HandleGetCart lists the caller's cart lines with computed totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	items, err := h.service.ListItems(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleCartTotal computes the caller's cart total.
func (h *CartHandler) HandleCartTotal(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	total, err := h.service.CartTotal(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

// HandleCartCount counts the caller's cart lines.
func (h *CartHandler) HandleCartCount(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	count, err := h.service.ItemCount(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleAddToCart adds a product to the caller's cart, merging with an
// existing line for the same product.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)

	productID := c.Query("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}
	quantity := c.QueryInt("quantity", 1)
	if quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity must be positive",
		})
	}

	item, err := h.service.AddToCart(identity.UserID, productID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleUpdateItem replaces one cart line's quantity.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)

	quantity := c.QueryInt("quantity", 0)
	if quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity must be positive",
		})
	}

	item, err := h.service.UpdateItem(identity.UserID, c.Params("cartItemId"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes one cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	if err := h.service.RemoveItem(identity.UserID, c.Params("cartItemId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

// HandleClearCart deletes all of the caller's cart lines.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	if err := h.service.ClearCart(identity.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
