package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// EventPublisher publishes order lifecycle events. Publishing is
// best-effort: a broker failure never fails the request that produced the
// event.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderService handles business logic related to orders, including the
// checkout workflow that converts a cart into an immutable order.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repositories.Store, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
	}
}

// UserOrders retrieves a user's orders, most recent first.
func (s *OrderService) UserOrders(userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(userID)
}

// AllOrders retrieves one page of all orders, most recent first.
func (s *OrderService) AllOrders(page, size int) (*models.OrderPage, error) {
	page, size = clampPaging(page, size)
	orders, total, err := s.store.Orders().ListAll(page, size)
	if err != nil {
		return nil, err
	}
	return &models.OrderPage{
		Content:       orders,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages(total, size),
	}, nil
}

// GetOrder retrieves a single order with its items.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.store.Orders().GetByID(id)
}

// Checkout converts the user's cart into a PENDING order inside one
// transaction: every line's stock is re-checked and decremented through a
// conditional update, the effective unit price is frozen into an order
// item, the total accumulates in exact decimal arithmetic, and the cart
// is cleared. Any shortfall aborts the whole operation, rolling back all
// decrements already made.
func (s *OrderService) Checkout(userID string, req models.CheckoutRequest) (*models.Order, error) {
	var order *models.Order

	err := s.store.Atomic(func(tx repositories.Store) error {
		items, err := tx.Carts().ListByUser(userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return models.ErrEmptyCart
		}

		o := &models.Order{
			ID:              uuid.New().String(),
			UserID:          userID,
			Status:          models.StatusPending,
			ShippingAddress: req.ShippingAddress,
			City:            req.City,
			State:           req.State,
			ZipCode:         req.ZipCode,
			Country:         req.Country,
			Phone:           req.Phone,
		}

		total := decimal.Zero
		for i := range items {
			product := items[i].Product
			qty := items[i].Quantity

			if product.StockQuantity < qty {
				return fmt.Errorf("%w for: %s", models.ErrInsufficientStock, product.Name)
			}
			if err := tx.Products().DecrementStock(product.ID, qty); err != nil {
				// The conditional update lost a race against another
				// checkout; report it the same way as the pre-check.
				if errors.Is(err, models.ErrInsufficientStock) {
					return fmt.Errorf("%w for: %s", models.ErrInsufficientStock, product.Name)
				}
				return err
			}

			unit := product.EffectivePrice()
			o.Items = append(o.Items, models.OrderItem{
				ID:           uuid.New().String(),
				OrderID:      o.ID,
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.ImageURL,
				Quantity:     qty,
				Price:        unit,
			})
			total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
		}
		o.TotalAmount = total

		if err := tx.Orders().Create(o); err != nil {
			return err
		}
		if err := tx.Carts().DeleteByUser(userID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	})
	return order, nil
}

// UpdateStatus performs an admin status transition, constrained by the
// legal transition table.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidStatus, status)
	}

	order, err := s.store.Orders().GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s order cannot move to %s", models.ErrInvalidStatus, order.Status, status)
	}

	if err := s.store.Orders().UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.publishEvent("order.status_updated", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
	})
	return order, nil
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
