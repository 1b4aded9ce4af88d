package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teacurran/village-calendar/internal/repository"
	"github.com/teacurran/village-calendar/internal/shipping"
	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

// OrderQuote is the total presented to payment: cart subtotal, the tax
// placeholder, and the validated shipping charge.
type OrderQuote struct {
	CartID         string `json:"cart_id,omitempty"`
	Subtotal       string `json:"subtotal"`
	TaxAmount      string `json:"tax_amount"`
	ShippingAmount string `json:"shipping_amount"`
	TotalAmount    string `json:"total_amount"`
}

// PricingService composes the cart subtotal with the shipping resolver's
// output. Read-only; it never mutates the cart.
type PricingService struct {
	repo     repository.CartRepository
	resolver *shipping.Resolver
	logger   *slog.Logger
}

// NewPricingService creates a new checkout pricing service.
func NewPricingService(repo repository.CartRepository, resolver *shipping.Resolver, logger *slog.Logger) *PricingService {
	return &PricingService{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// QuoteOrder prices the session's cart against the destination address.
// Resolver errors (InvalidInput, PolicyRejected) propagate unchanged so the
// caller can distinguish a malformed address from a refused destination.
func (s *PricingService) QuoteOrder(ctx context.Context, sessionID string, addr *shipping.Address) (*OrderQuote, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	shippingAmount, err := s.resolver.Quote(addr)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	cartID := ""
	cart, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil:
		subtotal = cart.Subtotal()
		cartID = cart.ID
	case errors.Is(err, apperrors.ErrNotFound):
		// No cart yet for this session: price an empty order.
	default:
		return nil, fmt.Errorf("get cart: %w", err)
	}

	tax := decimal.Zero
	total := subtotal.Add(tax).Add(shippingAmount)

	s.logger.InfoContext(ctx, "order quoted",
		slog.String("session_id", sessionID),
		slog.String("subtotal", subtotal.StringFixed(2)),
		slog.String("shipping_amount", shippingAmount.StringFixed(2)),
		slog.String("total_amount", total.StringFixed(2)),
	)

	return &OrderQuote{
		CartID:         cartID,
		Subtotal:       subtotal.StringFixed(2),
		TaxAmount:      tax.StringFixed(2),
		ShippingAmount: shippingAmount.StringFixed(2),
		TotalAmount:    total.StringFixed(2),
	}, nil
}

// QuoteShipping returns just the shipping charge for a destination.
func (s *PricingService) QuoteShipping(addr *shipping.Address) (decimal.Decimal, error) {
	return s.resolver.Quote(addr)
}
