package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. At most one line exists per
// (user, product) pair; adding an already-carted product merges quantities
// instead of creating a second row.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	Product   Product   `json:"-" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItemDetail is a cart line as returned to clients, with the product
// fields resolved and the line total computed from the effective price.
type CartItemDetail struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	ProductImage  string           `json:"productImage"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Quantity      int              `json:"quantity"`
	Total         decimal.Decimal  `json:"total"`
}
