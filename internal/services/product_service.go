package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

const defaultPageSize = 12

// sortableColumns whitelists the caller-supplied sortBy values and maps
// them onto column names. Anything outside the table sorts by creation
// time, so arbitrary input never reaches the query layer.
var sortableColumns = map[string]string{
	"name":          "name",
	"price":         "price",
	"rating":        "rating",
	"stockQuantity": "stock_quantity",
	"createdAt":     "created_at",
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves one page of active products.
func (s *ProductService) ListProducts(page, size int, sortBy, sortDir string) (*models.ProductPage, error) {
	page, size = clampPaging(page, size)

	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(sortDir, "asc") {
		dir = "asc"
	}

	products, total, err := s.repo.ListActive(page, size, column, dir)
	if err != nil {
		return nil, err
	}
	return productPage(products, page, size, total), nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// FeaturedProducts retrieves all active featured products.
func (s *ProductService) FeaturedProducts() ([]models.Product, error) {
	return s.repo.ListFeatured()
}

// SearchProducts retrieves one page of active products whose name contains
// the query.
func (s *ProductService) SearchProducts(query string, page, size int) (*models.ProductPage, error) {
	page, size = clampPaging(page, size)
	products, total, err := s.repo.Search(query, page, size)
	if err != nil {
		return nil, err
	}
	return productPage(products, page, size, total), nil
}

// ProductsByCategory retrieves one page of active products in a category.
func (s *ProductService) ProductsByCategory(category string, page, size int) (*models.ProductPage, error) {
	page, size = clampPaging(page, size)
	products, total, err := s.repo.ListByCategory(category, page, size)
	if err != nil {
		return nil, err
	}
	return productPage(products, page, size, total), nil
}

// Categories retrieves the distinct categories of active products.
func (s *ProductService) Categories() ([]string, error) {
	return s.repo.Categories()
}

// CreateProduct creates an active product from the request. IsFeatured
// defaults to false when absent.
func (s *ProductService) CreateProduct(req models.ProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         decimal.NewFromFloat(req.Price),
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		Brand:         req.Brand,
		IsActive:      true,
	}
	if req.DiscountPrice != nil {
		discount := decimal.NewFromFloat(*req.DiscountPrice)
		product.DiscountPrice = &discount
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies the request to an existing product. IsFeatured is
// only touched when the request carries it.
func (s *ProductService) UpdateProduct(id string, req models.ProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = decimal.NewFromFloat(req.Price)
	product.DiscountPrice = nil
	if req.DiscountPrice != nil {
		discount := decimal.NewFromFloat(*req.DiscountPrice)
		product.DiscountPrice = &discount
	}
	product.StockQuantity = req.StockQuantity
	product.Category = req.Category
	product.ImageURL = req.ImageURL
	product.Brand = req.Brand
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product by flipping its active flag. The
// row stays so past order items keep a valid reference.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	product.IsActive = false
	return s.repo.Update(product)
}

func clampPaging(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func productPage(products []models.Product, page, size int, total int64) *models.ProductPage {
	return &models.ProductPage{
		Content:       products,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages(total, size),
	}
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
