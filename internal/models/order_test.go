package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"shopapi/internal/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusPaid))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusPaid.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusPaid.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusDelivered))

	// No going backwards and no skipping ahead
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusShipped))
	assert.False(t, models.StatusPaid.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusCancelled))

	// Terminal states stay terminal
	for _, next := range []models.OrderStatus{
		models.StatusPending, models.StatusPaid, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled,
	} {
		assert.False(t, models.StatusDelivered.CanTransitionTo(next))
		assert.False(t, models.StatusCancelled.CanTransitionTo(next))
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, models.StatusPending.Valid())
	assert.True(t, models.StatusCancelled.Valid())
	assert.False(t, models.OrderStatus("REFUNDED").Valid())
	assert.False(t, models.OrderStatus("").Valid())
}

func TestEffectivePrice(t *testing.T) {
	product := models.Product{Price: decimal.NewFromInt(100)}
	assert.True(t, product.EffectivePrice().Equal(decimal.NewFromInt(100)))

	discount := decimal.NewFromInt(75)
	product.DiscountPrice = &discount
	assert.True(t, product.EffectivePrice().Equal(decimal.NewFromInt(75)))
}
