package repository

import (
	"context"

	"github.com/teacurran/village-calendar/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its session ID. Returns a NotFound error when
	// no cart exists for the session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion persists the cart only if the stored version still equals
	// expectedVersion, bumping the version on success. Returns false without
	// error when the cart was modified concurrently. A new cart saves with
	// expectedVersion 0. This conditional write is what serializes concurrent
	// mutations of the same session's cart.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by the session ID.
	Delete(ctx context.Context, sessionID string) error
}
