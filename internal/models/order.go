package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// statusTransitions lists the legal moves out of each status. DELIVERED and
// CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether s may legally move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a customer order. It is immutable once created, except for
// status transitions performed by an administrator.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"userId" gorm:"type:varchar(36);index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2)"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	ShippingAddress string          `json:"shippingAddress"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	ZipCode         string          `json:"zipCode"`
	Country         string          `json:"country"`
	Phone           string          `json:"phone"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem freezes the product name, image and unit price at purchase
// time; later catalog edits do not touch past orders.
type OrderItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string          `json:"-" gorm:"type:varchar(36);index"`
	ProductID    string          `json:"productId" gorm:"type:varchar(36)"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
}

// CheckoutRequest carries the shipping details for checkout.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	City            string `json:"city" validate:"required"`
	State           string `json:"state" validate:"required"`
	ZipCode         string `json:"zipCode" validate:"required"`
	Country         string `json:"country" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
}

// OrderPage is one page of orders with pagination metadata.
type OrderPage struct {
	Content       []Order `json:"content"`
	Page          int     `json:"page"`
	Size          int     `json:"size"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
}
