package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// newTestStore opens a private in-memory sqlite database so checkout runs
// through real transactions.
func newTestStore(t *testing.T) *repositories.GormStore {
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

func seedCheckoutProducts(t *testing.T, store repositories.Store) {
	t.Helper()
	discount := decimal.NewFromInt(40)
	require.NoError(t, store.Products().Create(&models.Product{
		ID:            "prod-a",
		Name:          "Widget A",
		Price:         decimal.NewFromInt(100),
		StockQuantity: 5,
		Category:      "Widgets",
		IsActive:      true,
	}))
	require.NoError(t, store.Products().Create(&models.Product{
		ID:            "prod-b",
		Name:          "Widget B",
		Price:         decimal.NewFromInt(50),
		DiscountPrice: &discount,
		StockQuantity: 3,
		Category:      "Widgets",
		IsActive:      true,
	}))
}

func addCartLine(t *testing.T, store repositories.Store, userID, productID string, qty int) {
	t.Helper()
	require.NoError(t, store.Carts().Create(&models.CartItem{
		ID:        fmt.Sprintf("cart-%s-%s", userID, productID),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}))
}

var testShipping = models.CheckoutRequest{
	ShippingAddress: "123 Main St",
	City:            "Springfield",
	State:           "IL",
	ZipCode:         "62701",
	Country:         "USA",
	Phone:           "555-0100",
}

func TestOrderService_Checkout(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)
	addCartLine(t, store, "user-1", "prod-a", 2)
	addCartLine(t, store, "user-1", "prod-b", 1)

	publisher := new(MockPublisher)
	publisher.On("Publish", "order.created", mock.Anything).Return(nil).Once()
	orderService := services.NewOrderService(store, publisher)

	order, err := orderService.Checkout("user-1", testShipping)
	require.NoError(t, err)

	// 2 x 100 plus 1 x 40 (discounted unit price)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(240)), "got %s", order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "123 Main St", order.ShippingAddress)

	// The order items froze names and effective unit prices
	byProduct := map[string]models.OrderItem{}
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	assert.Equal(t, "Widget A", byProduct["prod-a"].ProductName)
	assert.True(t, byProduct["prod-a"].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, byProduct["prod-a"].Quantity)
	assert.True(t, byProduct["prod-b"].Price.Equal(decimal.NewFromInt(40)))

	// Stock was decremented
	a, err := store.Products().GetByID("prod-a")
	require.NoError(t, err)
	assert.Equal(t, 3, a.StockQuantity)
	b, err := store.Products().GetByID("prod-b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.StockQuantity)

	// The cart is empty afterwards
	items, err := store.Carts().ListByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// The order is persisted with its items
	loaded, err := orderService.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(240)))

	publisher.AssertExpectations(t)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(publisher.Calls[0].Arguments.Get(1).([]byte), &payload))
	assert.Equal(t, order.ID, payload["orderId"])
	assert.Equal(t, "user-1", payload["userId"])
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)

	publisher := new(MockPublisher)
	orderService := services.NewOrderService(store, publisher)

	_, err := orderService.Checkout("user-1", testShipping)
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	// No order came into existence
	orders, err := store.Orders().ListByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_ShortfallRollsBack(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)
	addCartLine(t, store, "user-1", "prod-a", 2)
	addCartLine(t, store, "user-1", "prod-b", 5)

	orderService := services.NewOrderService(store, nil)

	_, err := orderService.Checkout("user-1", testShipping)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Widget B")

	// The decrement already applied to the first line was rolled back
	a, err := store.Products().GetByID("prod-a")
	require.NoError(t, err)
	assert.Equal(t, 5, a.StockQuantity)
	b, err := store.Products().GetByID("prod-b")
	require.NoError(t, err)
	assert.Equal(t, 3, b.StockQuantity)

	// The cart survived
	items, err := store.Carts().ListByUser("user-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	orders, err := store.Orders().ListByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_Checkout_MockStoreRollsBack(t *testing.T) {
	store := repositories.NewMockStore()
	discount := decimal.NewFromInt(40)
	require.NoError(t, store.Products().Create(&models.Product{
		ID: "prod-a", Name: "Widget A", Price: decimal.NewFromInt(100), StockQuantity: 5, IsActive: true,
	}))
	require.NoError(t, store.Products().Create(&models.Product{
		ID: "prod-b", Name: "Widget B", Price: decimal.NewFromInt(50), DiscountPrice: &discount, StockQuantity: 3, IsActive: true,
	}))
	addCartLine(t, store, "user-1", "prod-a", 2)
	addCartLine(t, store, "user-1", "prod-b", 5)

	orderService := services.NewOrderService(store, nil)

	// The compensation path behaves like the database transaction
	_, err := orderService.Checkout("user-1", testShipping)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	a, err := store.Products().GetByID("prod-a")
	require.NoError(t, err)
	assert.Equal(t, 5, a.StockQuantity)
	items, err := store.Carts().ListByUser("user-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)
	addCartLine(t, store, "user-1", "prod-a", 1)

	publisher := new(MockPublisher)
	publisher.On("Publish", "order.created", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "order.status_updated", mock.Anything).Return(nil).Twice()
	orderService := services.NewOrderService(store, publisher)

	order, err := orderService.Checkout("user-1", testShipping)
	require.NoError(t, err)

	// Legal transitions: PENDING -> PAID -> SHIPPED
	updated, err := orderService.UpdateStatus(order.ID, models.StatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)

	updated, err = orderService.UpdateStatus(order.ID, models.StatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	// SHIPPED cannot go back to PENDING or be cancelled
	_, err = orderService.UpdateStatus(order.ID, models.StatusPending)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = orderService.UpdateStatus(order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	// Unknown status values are rejected before touching the order
	_, err = orderService.UpdateStatus(order.ID, models.OrderStatus("REFUNDED"))
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	// Unknown orders
	_, err = orderService.UpdateStatus("no-such-order", models.StatusPaid)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	// The stored status moved with the service
	loaded, err := orderService.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, loaded.Status)

	publisher.AssertExpectations(t)
}

func TestOrderService_Checkout_PublisherFailureDoesNotFailOrder(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)
	addCartLine(t, store, "user-1", "prod-a", 1)

	publisher := new(MockPublisher)
	publisher.On("Publish", "order.created", mock.Anything).Return(fmt.Errorf("broker down")).Once()
	orderService := services.NewOrderService(store, publisher)

	order, err := orderService.Checkout("user-1", testShipping)
	assert.NoError(t, err)
	assert.NotNil(t, order)
	publisher.AssertExpectations(t)
}

func TestOrderService_AllOrders_Paged(t *testing.T) {
	store := newTestStore(t)
	seedCheckoutProducts(t, store)
	orderService := services.NewOrderService(store, nil)

	for i := 0; i < 3; i++ {
		addCartLine(t, store, fmt.Sprintf("user-%d", i), "prod-a", 1)
		_, err := orderService.Checkout(fmt.Sprintf("user-%d", i), testShipping)
		require.NoError(t, err)
	}

	page, err := orderService.AllOrders(0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	page, err = orderService.AllOrders(1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
}
