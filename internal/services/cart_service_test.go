package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

func newCartFixture(t *testing.T) (*services.CartService, repositories.Store) {
	t.Helper()
	store := repositories.NewMockStore()

	discount := decimal.NewFromInt(40)
	products := []*models.Product{
		{
			ID:            "prod-a",
			Name:          "Widget A",
			Price:         decimal.NewFromInt(100),
			StockQuantity: 5,
			Category:      "Widgets",
			IsActive:      true,
		},
		{
			ID:            "prod-b",
			Name:          "Widget B",
			Price:         decimal.NewFromInt(50),
			DiscountPrice: &discount,
			StockQuantity: 3,
			Category:      "Widgets",
			IsActive:      true,
		},
	}
	for _, p := range products {
		require.NoError(t, store.Products().Create(p))
	}

	return services.NewCartService(store.Carts(), store.Products()), store
}

func TestCartService_AddToCart_MergesLines(t *testing.T) {
	cartService, _ := newCartFixture(t)

	first, err := cartService.AddToCart("user-1", "prod-a", 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	// A second add for the same product grows the existing line
	second, err := cartService.AddToCart("user-1", "prod-a", 1)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	items, err := cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	count, err := cartService.ItemCount("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, _ := newCartFixture(t)

	_, err := cartService.AddToCart("user-1", "prod-a", 6)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Widget A")

	// Nothing was written
	items, err := cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Empty(t, items)

	// Unknown products are reported as such, not as a stock problem
	_, err = cartService.AddToCart("user-1", "no-such-product", 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestCartService_CartTotal_UsesEffectivePrice(t *testing.T) {
	cartService, _ := newCartFixture(t)

	_, err := cartService.AddToCart("user-1", "prod-a", 2)
	require.NoError(t, err)
	_, err = cartService.AddToCart("user-1", "prod-b", 1)
	require.NoError(t, err)

	// 2 x 100 plus 1 x 40 (discount beats base price)
	total, err := cartService.CartTotal("user-1")
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(240)), "got %s", total)
}

func TestCartService_UpdateItem(t *testing.T) {
	cartService, _ := newCartFixture(t)

	item, err := cartService.AddToCart("user-1", "prod-a", 1)
	require.NoError(t, err)

	updated, err := cartService.UpdateItem("user-1", item.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// The new quantity replaces the old one, it is not added to it
	items, err := cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)

	// Stock rule applies to updates too
	_, err = cartService.UpdateItem("user-1", item.ID, 6)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestCartService_OwnershipHidesForeignLines(t *testing.T) {
	cartService, _ := newCartFixture(t)

	item, err := cartService.AddToCart("user-1", "prod-a", 1)
	require.NoError(t, err)

	// Another user's line reads as missing
	_, err = cartService.UpdateItem("user-2", item.ID, 2)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	err = cartService.RemoveItem("user-2", item.ID)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	// The owner still sees it untouched
	items, err := cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	cartService, _ := newCartFixture(t)

	item, err := cartService.AddToCart("user-1", "prod-a", 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart("user-1", "prod-b", 1)
	require.NoError(t, err)

	assert.NoError(t, cartService.RemoveItem("user-1", item.ID))
	items, err := cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	assert.NoError(t, cartService.ClearCart("user-1"))
	items, err = cartService.ListItems("user-1")
	assert.NoError(t, err)
	assert.Empty(t, items)

	total, err := cartService.CartTotal("user-1")
	assert.NoError(t, err)
	assert.True(t, total.IsZero())
}
