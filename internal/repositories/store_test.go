package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

func openGormStore(t *testing.T) *repositories.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	return repositories.NewGormStore(db)
}

// Both Store implementations must keep the same Atomic contract, so the
// shared cases run against each.
func stores(t *testing.T) map[string]repositories.Store {
	return map[string]repositories.Store{
		"gorm": openGormStore(t),
		"mock": repositories.NewMockStore(),
	}
}

func TestStore_AtomicRollback(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Products().Create(&models.Product{
				ID:            "prod-1",
				Name:          "Widget",
				Price:         decimal.NewFromInt(10),
				StockQuantity: 5,
				Category:      "Widgets",
				IsActive:      true,
			}))

			boom := errors.New("boom")
			err := store.Atomic(func(tx repositories.Store) error {
				if err := tx.Products().DecrementStock("prod-1", 3); err != nil {
					return err
				}
				if err := tx.Orders().Create(&models.Order{
					ID:     "order-1",
					UserID: "user-1",
					Status: models.StatusPending,
				}); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			// Every write inside the failed transaction was undone
			product, err := store.Products().GetByID("prod-1")
			require.NoError(t, err)
			assert.Equal(t, 5, product.StockQuantity)

			_, err = store.Orders().GetByID("order-1")
			assert.ErrorIs(t, err, models.ErrOrderNotFound)
		})
	}
}

func TestStore_AtomicCommit(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Products().Create(&models.Product{
				ID:            "prod-1",
				Name:          "Widget",
				Price:         decimal.NewFromInt(10),
				StockQuantity: 5,
				Category:      "Widgets",
				IsActive:      true,
			}))

			err := store.Atomic(func(tx repositories.Store) error {
				return tx.Products().DecrementStock("prod-1", 2)
			})
			require.NoError(t, err)

			product, err := store.Products().GetByID("prod-1")
			require.NoError(t, err)
			assert.Equal(t, 3, product.StockQuantity)
		})
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Products().Create(&models.Product{
				ID:            "prod-1",
				Name:          "Widget",
				Price:         decimal.NewFromInt(10),
				StockQuantity: 3,
				Category:      "Widgets",
				IsActive:      true,
			}))

			// More than the remaining stock fails and writes nothing
			err := store.Products().DecrementStock("prod-1", 4)
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			product, err := store.Products().GetByID("prod-1")
			require.NoError(t, err)
			assert.Equal(t, 3, product.StockQuantity)

			// Exactly the remaining stock drains it to zero
			require.NoError(t, store.Products().DecrementStock("prod-1", 3))
			product, err = store.Products().GetByID("prod-1")
			require.NoError(t, err)
			assert.Equal(t, 0, product.StockQuantity)

			// Zero stock rejects any further decrement
			err = store.Products().DecrementStock("prod-1", 1)
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
		})
	}
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Products().Create(&models.Product{
				ID:            "prod-1",
				Name:          "Widget",
				Price:         decimal.NewFromInt(10),
				StockQuantity: 5,
				Category:      "Widgets",
				IsActive:      true,
			}))

			_, err := store.Carts().FindByUserAndProduct("user-1", "prod-1")
			assert.ErrorIs(t, err, models.ErrCartItemNotFound)

			require.NoError(t, store.Carts().Create(&models.CartItem{
				ID:        "cart-1",
				UserID:    "user-1",
				ProductID: "prod-1",
				Quantity:  2,
			}))

			item, err := store.Carts().FindByUserAndProduct("user-1", "prod-1")
			require.NoError(t, err)
			assert.Equal(t, "cart-1", item.ID)
			assert.Equal(t, 2, item.Quantity)

			// Scoped to the user
			_, err = store.Carts().FindByUserAndProduct("user-2", "prod-1")
			assert.ErrorIs(t, err, models.ErrCartItemNotFound)
		})
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Users().Create(&models.User{
				ID:        "user-1",
				Email:     "taken@example.com",
				Password:  "hash",
				FirstName: "First",
				LastName:  "User",
				Role:      models.RoleUser,
			}))

			// A second insert for the same email hits the unique index and
			// must surface as the domain error, not a raw driver error.
			// This is the path a registration takes when it races past the
			// service-level existence check.
			err := store.Users().Create(&models.User{
				ID:        "user-2",
				Email:     "taken@example.com",
				Password:  "hash",
				FirstName: "Second",
				LastName:  "User",
				Role:      models.RoleUser,
			})
			assert.ErrorIs(t, err, models.ErrDuplicateEmail)

			// The first account is untouched
			user, err := store.Users().GetByEmail("taken@example.com")
			require.NoError(t, err)
			assert.Equal(t, "user-1", user.ID)
		})
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Orders().Create(&models.Order{
				ID:     "order-1",
				UserID: "user-1",
				Status: models.StatusPending,
			}))

			require.NoError(t, store.Orders().UpdateStatus("order-1", models.StatusPaid))
			order, err := store.Orders().GetByID("order-1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusPaid, order.Status)

			err = store.Orders().UpdateStatus("no-such-order", models.StatusPaid)
			assert.ErrorIs(t, err, models.ErrOrderNotFound)
		})
	}
}
