package repositories

import "shopapi/internal/models"

// ProductRepository defines the interface for product data access. List
// operations return only active products; paginated results carry the
// total matching count. sortColumn and sortDir are assumed already
// validated by the caller.
type ProductRepository interface {
	ListActive(page, size int, sortColumn, sortDir string) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	ListFeatured() ([]models.Product, error)
	Search(query string, page, size int) ([]models.Product, int64, error)
	ListByCategory(category string, page, size int) ([]models.Product, int64, error)
	Categories() ([]string, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// DecrementStock atomically decrements a product's stock by qty,
	// failing with ErrInsufficientStock when fewer than qty units remain.
	// The check and the decrement are a single operation so concurrent
	// checkouts cannot oversell.
	DecrementStock(id string, qty int) error
}
