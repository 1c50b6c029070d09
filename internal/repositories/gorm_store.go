package repositories

import (
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// GormStore is the database-backed Store. Atomic maps onto a GORM
// transaction.
type GormStore struct {
	db       *gorm.DB
	products *GORMProductRepository
	carts    *GORMCartRepository
	orders   *GORMOrderRepository
	users    *GORMUserRepository
}

// NewGormStore creates a Store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		products: NewGORMProductRepository(db),
		carts:    NewGORMCartRepository(db),
		orders:   NewGORMOrderRepository(db),
		users:    NewGORMUserRepository(db),
	}
}

func (s *GormStore) Products() ProductRepository { return s.products }
func (s *GormStore) Carts() CartRepository       { return s.carts }
func (s *GormStore) Orders() OrderRepository     { return s.orders }
func (s *GormStore) Users() UserRepository       { return s.users }

// Atomic runs fn inside a database transaction; fn receives a store bound
// to that transaction.
func (s *GormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// AutoMigrate creates or updates the schema for every entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
