package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// CartService handles business logic for the per-user shopping cart.
// Stock is only checked here, never reserved; the decrement happens at
// checkout.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// ListItems retrieves the user's cart lines with computed per-line totals.
func (s *CartService) ListItems(userID string) ([]models.CartItemDetail, error) {
	items, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]models.CartItemDetail, 0, len(items))
	for i := range items {
		details = append(details, cartItemDetail(&items[i], &items[i].Product))
	}
	return details, nil
}

// CartTotal computes the sum of the user's line totals.
func (s *CartService) CartTotal(userID string) (decimal.Decimal, error) {
	items, err := s.carts.ListByUser(userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range items {
		unit := items[i].Product.EffectivePrice()
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return total, nil
}

// ItemCount counts the user's cart lines.
func (s *CartService) ItemCount(userID string) (int, error) {
	return s.carts.CountByUser(userID)
}

// AddToCart puts quantity units of a product into the user's cart. When a
// line for the product already exists its quantity is incremented rather
// than a second line created. Fails with ErrInsufficientStock when
// quantity exceeds the current stock.
func (s *CartService) AddToCart(userID, productID string, quantity int) (*models.CartItemDetail, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, fmt.Errorf("%w for: %s", models.ErrInsufficientStock, product.Name)
	}

	item, err := s.carts.FindByUserAndProduct(userID, productID)
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := s.carts.Update(item); err != nil {
			return nil, err
		}
	case errors.Is(err, models.ErrCartItemNotFound):
		item = &models.CartItem{
			ID:        uuid.New().String(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.carts.Create(item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	detail := cartItemDetail(item, product)
	return &detail, nil
}

// UpdateItem replaces a line's quantity under the same stock rule as
// AddToCart. A line that does not belong to the user reads as not found.
func (s *CartService) UpdateItem(userID, cartItemID string, quantity int) (*models.CartItemDetail, error) {
	item, err := s.ownedItem(userID, cartItemID)
	if err != nil {
		return nil, err
	}
	if quantity > item.Product.StockQuantity {
		return nil, fmt.Errorf("%w for: %s", models.ErrInsufficientStock, item.Product.Name)
	}

	item.Quantity = quantity
	if err := s.carts.Update(item); err != nil {
		return nil, err
	}
	detail := cartItemDetail(item, &item.Product)
	return &detail, nil
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(userID, cartItemID string) error {
	if _, err := s.ownedItem(userID, cartItemID); err != nil {
		return err
	}
	return s.carts.Delete(cartItemID)
}

// ClearCart deletes all of the user's cart lines.
func (s *CartService) ClearCart(userID string) error {
	return s.carts.DeleteByUser(userID)
}

// ownedItem loads a cart line and enforces that it belongs to the acting
// user; someone else's line is indistinguishable from a missing one.
func (s *CartService) ownedItem(userID, cartItemID string) (*models.CartItem, error) {
	item, err := s.carts.GetByID(cartItemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w with id: %s", models.ErrCartItemNotFound, cartItemID)
	}
	return item, nil
}

func cartItemDetail(item *models.CartItem, product *models.Product) models.CartItemDetail {
	unit := product.EffectivePrice()
	return models.CartItemDetail{
		ID:            item.ID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		ProductImage:  product.ImageURL,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Quantity:      item.Quantity,
		Total:         unit.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}
