package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository. It
// resolves the Product field of returned lines through the product
// repository it was built with.
type MockCartRepository struct {
	items    map[string]models.CartItem
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		items:    make(map[string]models.CartItem),
		products: products,
	}
}

// ListByUser returns all cart lines of a user, oldest first.
func (r *MockCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, r.withProduct(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// GetByID returns a cart line by its ID.
func (r *MockCartRepository) GetByID(id string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w with id: %s", models.ErrCartItemNotFound, id)
	}
	item = r.withProduct(item)
	return &item, nil
}

// FindByUserAndProduct returns the line a user holds for a product.
func (r *MockCartRepository) FindByUserAndProduct(userID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			item = r.withProduct(item)
			return &item, nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

// CountByUser counts the cart lines of a user.
func (r *MockCartRepository) CountByUser(userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Create adds a new cart line.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = models.Product{}
	r.items[item.ID] = stored
	return nil
}

// Update modifies an existing cart line.
func (r *MockCartRepository) Update(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("%w with id: %s", models.ErrCartItemNotFound, item.ID)
	}
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = models.Product{}
	r.items[item.ID] = stored
	return nil
}

// Delete removes a cart line by its ID.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w with id: %s", models.ErrCartItemNotFound, id)
	}
	delete(r.items, id)
	return nil
}

// DeleteByUser removes all cart lines of a user.
func (r *MockCartRepository) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *MockCartRepository) withProduct(item models.CartItem) models.CartItem {
	if product, err := r.products.GetByID(item.ProductID); err == nil {
		item.Product = *product
	}
	return item
}

func (r *MockCartRepository) snapshot() map[string]models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.CartItem, len(r.items))
	for id, item := range r.items {
		snap[id] = item
	}
	return snap
}

func (r *MockCartRepository) restore(snap map[string]models.CartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = snap
}
