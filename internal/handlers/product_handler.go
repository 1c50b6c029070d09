package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/models"
	"shopapi/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the product routes. Reads are public; writes
// require an admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/featured", h.HandleFeaturedProducts)
	products.Get("/search", h.HandleSearchProducts)
	products.Get("/categories", h.HandleCategories)
	products.Get("/category/:category", h.HandleProductsByCategory)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", auth, admin, h.HandleCreateProduct)
	products.Put("/:id", auth, admin, h.HandleUpdateProduct)
	products.Delete("/:id", auth, admin, h.HandleDeleteProduct)
}

// HandleListProducts lists active products, paginated and sorted.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(
		c.QueryInt("page", 0),
		c.QueryInt("size", 12),
		c.Query("sortBy", "createdAt"),
		c.Query("sortDir", "desc"),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleFeaturedProducts lists active featured products.
func (h *ProductHandler) HandleFeaturedProducts(c *fiber.Ctx) error {
	products, err := h.service.FeaturedProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchProducts searches active products by name substring.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	page, err := h.service.SearchProducts(
		c.Query("q"),
		c.QueryInt("page", 0),
		c.QueryInt("size", 12),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleProductsByCategory lists active products in a category.
func (h *ProductHandler) HandleProductsByCategory(c *fiber.Ctx) error {
	page, err := h.service.ProductsByCategory(
		c.Params("category"),
		c.QueryInt("page", 0),
		c.QueryInt("size", 12),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleCategories lists the distinct categories of active products.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	product, err := h.service.CreateProduct(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	product, err := h.service.UpdateProduct(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
