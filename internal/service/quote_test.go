package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teacurran/village-calendar/internal/catalog"
	"github.com/teacurran/village-calendar/internal/shipping"
	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

func newPricingService() (*PricingService, *CartService) {
	repo := newMemCartRepository()
	carts := NewCartService(repo, catalog.NewDefault(), newTestProducer(), newTestLogger())
	pricing := NewPricingService(repo, shipping.NewResolver(nil), newTestLogger())
	return pricing, carts
}

func us() *shipping.Address {
	c := "US"
	return &shipping.Address{Country: &c}
}

func TestQuoteOrder_SubtotalPlusShipping(t *testing.T) {
	pricing, carts := newPricingService()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", AddItemInput{Year: 2026, Quantity: 2})
	require.NoError(t, err)

	quote, err := pricing.QuoteOrder(ctx, "sess-1", us())

	require.NoError(t, err)
	assert.Equal(t, "50.00", quote.Subtotal)
	assert.Equal(t, "0.00", quote.TaxAmount)
	assert.Equal(t, "5.99", quote.ShippingAmount)
	assert.Equal(t, "55.99", quote.TotalAmount)
	assert.NotEmpty(t, quote.CartID)
}

func TestQuoteOrder_EmptyCart(t *testing.T) {
	pricing, _ := newPricingService()

	quote, err := pricing.QuoteOrder(context.Background(), "sess-without-cart", us())

	require.NoError(t, err)
	assert.Equal(t, "0.00", quote.Subtotal)
	assert.Equal(t, "5.99", quote.ShippingAmount)
	assert.Equal(t, "5.99", quote.TotalAmount)
	assert.Empty(t, quote.CartID)
}

func TestQuoteOrder_InternationalDestinationRejected(t *testing.T) {
	pricing, carts := newPricingService()
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", AddItemInput{Year: 2026})
	require.NoError(t, err)

	ca := "CA"
	_, err = pricing.QuoteOrder(ctx, "sess-1", &shipping.Address{Country: &ca})

	assert.ErrorIs(t, err, apperrors.ErrPolicyRejected)
}

func TestQuoteOrder_MissingAddress(t *testing.T) {
	pricing, _ := newPricingService()

	_, err := pricing.QuoteOrder(context.Background(), "sess-1", nil)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQuoteOrder_BlankSessionID(t *testing.T) {
	pricing, _ := newPricingService()

	_, err := pricing.QuoteOrder(context.Background(), "  ", us())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQuoteShipping_PassesThroughResolver(t *testing.T) {
	pricing, _ := newPricingService()

	rate, err := pricing.QuoteShipping(us())

	require.NoError(t, err)
	assert.Equal(t, "5.99", rate.StringFixed(2))
}
