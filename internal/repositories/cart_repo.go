package repositories

import "shopapi/internal/models"

// CartRepository defines the interface for cart line data access. Reads
// return lines with their Product resolved.
type CartRepository interface {
	ListByUser(userID string) ([]models.CartItem, error)
	GetByID(id string) (*models.CartItem, error)
	FindByUserAndProduct(userID, productID string) (*models.CartItem, error)
	CountByUser(userID string) (int, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(id string) error
	DeleteByUser(userID string) error
}
