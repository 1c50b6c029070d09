package repositories

import "shopapi/internal/models"

// OrderRepository defines the interface for order data access. Orders are
// returned with their items; lists come back most recent first.
type OrderRepository interface {
	ListByUser(userID string) ([]models.Order, error)
	ListAll(page, size int) ([]models.Order, int64, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
}
