package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListActive retrieves one page of active products.
func (r *GORMProductRepository) ListActive(page, size int, sortColumn, sortDir string) ([]models.Product, int64, error) {
	return r.pageQuery(r.db.Where("is_active = ?", true).Order(sortColumn+" "+sortDir), page, size)
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with id: %s", models.ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// ListFeatured retrieves all active featured products.
func (r *GORMProductRepository) ListFeatured() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("is_active = ? AND is_featured = ?", true, true).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// Search retrieves one page of active products whose name contains query,
// case-insensitively.
func (r *GORMProductRepository) Search(query string, page, size int) ([]models.Product, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.pageQuery(r.db.Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern), page, size)
}

// ListByCategory retrieves one page of active products in a category.
func (r *GORMProductRepository) ListByCategory(category string, page, size int) ([]models.Product, int64, error) {
	return r.pageQuery(r.db.Where("is_active = ? AND category = ?", true, category), page, size)
}

// Categories retrieves the distinct categories of active products.
func (r *GORMProductRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected.
		return fmt.Errorf("%w with id: %s", models.ErrProductNotFound, product.ID)
	}
	return nil
}

// DecrementStock performs the conditional decrement
//
//	UPDATE products SET stock_quantity = stock_quantity - ?
//	WHERE id = ? AND stock_quantity >= ?
//
// so the availability check and the write cannot be separated by a
// concurrent checkout.
func (r *GORMProductRepository) DecrementStock(id string, qty int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w for product %s", models.ErrInsufficientStock, id)
	}
	return nil
}

func (r *GORMProductRepository) pageQuery(q *gorm.DB, page, size int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	q = q.Model(&models.Product{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := q.Offset(page * size).Limit(size).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}
