package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Products are never
// hard-deleted; deletion flips IsActive so past order items keep a valid
// reference.
type Product struct {
	ID            string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string           `json:"name" gorm:"type:varchar(150)"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" gorm:"type:decimal(10,2)"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty" gorm:"type:decimal(10,2)"`
	StockQuantity int              `json:"stockQuantity"`
	Category      string           `json:"category" gorm:"type:varchar(100);index"`
	ImageURL      string           `json:"imageUrl"`
	Brand         string           `json:"brand" gorm:"type:varchar(100)"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// EffectivePrice is the unit price a buyer actually pays: the discount
// price when one is set, the base price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=150"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discountPrice" validate:"omitempty,gt=0"`
	StockQuantity int      `json:"stockQuantity" validate:"gte=0"`
	Category      string   `json:"category" validate:"required"`
	ImageURL      string   `json:"imageUrl"`
	Brand         string   `json:"brand"`
	IsFeatured    *bool    `json:"isFeatured"`
}

// ProductPage is one page of catalog results with pagination metadata.
type ProductPage struct {
	Content       []Product `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}
