package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// ListActive returns one page of active products.
func (r *MockProductRepository) ListActive(page, size int, sortColumn, sortDir string) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := r.activeProducts(func(models.Product) bool { return true })
	sortProducts(active, sortColumn, sortDir)
	return pageOf(active, page, size), int64(len(active)), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w with id: %s", models.ErrProductNotFound, id)
	}
	return &product, nil
}

// ListFeatured returns all active featured products.
func (r *MockProductRepository) ListFeatured() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeProducts(func(p models.Product) bool { return p.IsFeatured }), nil
}

// Search returns one page of active products whose name contains query.
func (r *MockProductRepository) Search(query string, page, size int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	matches := r.activeProducts(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	return pageOf(matches, page, size), int64(len(matches)), nil
}

// ListByCategory returns one page of active products in a category.
func (r *MockProductRepository) ListByCategory(category string, page, size int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.activeProducts(func(p models.Product) bool { return p.Category == category })
	return pageOf(matches, page, size), int64(len(matches)), nil
}

// Categories returns the distinct categories of active products.
func (r *MockProductRepository) Categories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.products {
		if p.IsActive && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("%w with id: %s", models.ErrProductNotFound, product.ID)
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// DecrementStock checks and decrements stock under the write lock, so the
// two cannot be separated by a concurrent caller.
func (r *MockProductRepository) DecrementStock(id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.StockQuantity < qty {
		return fmt.Errorf("%w for product %s", models.ErrInsufficientStock, id)
	}
	product.StockQuantity -= qty
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

func (r *MockProductRepository) activeProducts(match func(models.Product) bool) []models.Product {
	var result []models.Product
	for _, p := range r.products {
		if p.IsActive && match(p) {
			result = append(result, p)
		}
	}
	sortProducts(result, "created_at", "desc")
	return result
}

func (r *MockProductRepository) snapshot() map[string]models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = p
	}
	return snap
}

func (r *MockProductRepository) restore(snap map[string]models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = snap
}

func sortProducts(products []models.Product, column, dir string) {
	less := func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch column {
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	case "price":
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case "rating":
		less = func(a, b models.Product) bool { return a.Rating < b.Rating }
	case "stock_quantity":
		less = func(a, b models.Product) bool { return a.StockQuantity < b.StockQuantity }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if dir == "desc" {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func pageOf(products []models.Product, page, size int) []models.Product {
	start := page * size
	if start >= len(products) {
		return []models.Product{}
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
