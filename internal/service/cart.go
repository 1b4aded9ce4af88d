package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teacurran/village-calendar/internal/catalog"
	"github.com/teacurran/village-calendar/internal/domain"
	"github.com/teacurran/village-calendar/internal/event"
	"github.com/teacurran/village-calendar/internal/repository"
	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

// maxSaveAttempts bounds how many times a mutation re-reads and retries after
// losing a version-check race for the same session's cart.
const maxSaveAttempts = 3

// AddItemInput holds the parameters for adding a calendar to the cart.
// Zero-valued fields take defaults: product code falls back to the catalog
// default, quantity to 1, unit price to the catalog price for the code, and
// display name to "Calendar <year>".
type AddItemInput struct {
	ProductCode   string           `json:"product_code"`
	DisplayName   string           `json:"display_name"`
	Year          int              `json:"year" validate:"required,gte=1"`
	Quantity      int              `json:"quantity" validate:"gte=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Configuration json.RawMessage  `json:"configuration,omitempty"`
}

// CartService implements the business logic for cart operations. Every
// mutation executes as read, apply, version-checked save; the projection it
// returns always reflects the persisted post-mutation state.
type CartService struct {
	repo     repository.CartRepository
	catalog  catalog.Provider
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, cat catalog.Provider, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  cat,
		producer: producer,
		logger:   logger,
	}
}

// GetOrCreate returns the session's cart, lazily creating and persisting an
// empty one on first access. Repeated calls for the same session return the
// same cart.
func (s *CartService) GetOrCreate(ctx context.Context, sessionID string) (*domain.CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.NewCartView(cart), nil
}

// AddItem adds a calendar line to the session's cart, merging into an
// existing line when product code, year, and configuration all match. The
// unit price is snapshotted now and never recomputed from the catalog.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.Year <= 0 {
		return nil, apperrors.InvalidInput("year is required")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}

	productCode := input.ProductCode
	if productCode == "" {
		productCode = s.catalog.DefaultCode()
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var unitPrice decimal.Decimal
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	} else {
		price, err := s.catalog.Price(productCode)
		if err != nil {
			return nil, err
		}
		unitPrice = price
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = fmt.Sprintf("Calendar %d", input.Year)
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cart, err := s.loadOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		expectedVersion := cart.Version

		line := cart.AddOrMergeItem(domain.CartItem{
			ID:            uuid.New().String(),
			ProductCode:   productCode,
			DisplayName:   displayName,
			Year:          input.Year,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			Configuration: input.Configuration,
		})
		cart.UpdatedAt = time.Now().UTC()

		ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if !ok {
			continue
		}

		s.publishUpdated(ctx, cart)
		s.logger.InfoContext(ctx, "item added to cart",
			slog.String("session_id", sessionID),
			slog.String("item_id", line.ID),
			slog.String("product_code", productCode),
			slog.Int("year", input.Year),
			slog.Int("quantity", line.Quantity),
		)
		return domain.NewCartView(cart), nil
	}

	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line. An item ID that is not in the session's cart,
// including one owned by a different session, is a silent no-op that returns
// the caller's own unmodified projection.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cart, err := s.loadOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		expectedVersion := cart.Version

		if !cart.SetItemQuantity(itemID, quantity) {
			// Missing or owned by another cart: deliberately not an error.
			s.logger.DebugContext(ctx, "update quantity skipped, item not in cart",
				slog.String("session_id", sessionID),
				slog.String("item_id", itemID),
			)
			return domain.NewCartView(cart), nil
		}
		cart.UpdatedAt = time.Now().UTC()

		ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if !ok {
			continue
		}

		s.publishUpdated(ctx, cart)
		s.logger.InfoContext(ctx, "cart item quantity updated",
			slog.String("session_id", sessionID),
			slog.String("item_id", itemID),
			slog.Int("quantity", quantity),
		)
		return domain.NewCartView(cart), nil
	}

	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// RemoveItem removes a cart line. Removal is idempotent, and the same
// ownership-isolation guard as UpdateQuantity applies: an item ID outside the
// session's cart is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cart, err := s.loadOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		expectedVersion := cart.Version

		if !cart.RemoveItem(itemID) {
			s.logger.DebugContext(ctx, "remove skipped, item not in cart",
				slog.String("session_id", sessionID),
				slog.String("item_id", itemID),
			)
			return domain.NewCartView(cart), nil
		}
		cart.UpdatedAt = time.Now().UTC()

		ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if !ok {
			continue
		}

		s.publishUpdated(ctx, cart)
		s.logger.InfoContext(ctx, "item removed from cart",
			slog.String("session_id", sessionID),
			slog.String("item_id", itemID),
		)
		return domain.NewCartView(cart), nil
	}

	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// Clear removes all items from the session's cart. Clearing an already-empty
// cart succeeds and returns the unchanged empty projection.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cart, err := s.loadOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		expectedVersion := cart.Version

		if len(cart.Items) == 0 {
			return domain.NewCartView(cart), nil
		}

		cart.Clear()
		cart.UpdatedAt = time.Now().UTC()

		ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if !ok {
			continue
		}

		if err := s.producer.PublishCartCleared(ctx, cart); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "cart cleared",
			slog.String("session_id", sessionID),
		)
		return domain.NewCartView(cart), nil
	}

	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// loadOrCreate retrieves the session's cart, creating and persisting an empty
// one if none exists. Losing a concurrent create race falls back to reading
// the winner's cart.
func (s *CartService) loadOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		cart, err := s.repo.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get cart: %w", err)
		}

		now := time.Now().UTC()
		cart = &domain.Cart{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Items:     []domain.CartItem{},
			Version:   0,
			CreatedAt: now,
			UpdatedAt: now,
		}
		ok, err := s.repo.SaveIfVersion(ctx, cart, 0)
		if err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		if ok {
			s.logger.InfoContext(ctx, "cart created",
				slog.String("session_id", sessionID),
				slog.String("cart_id", cart.ID),
			)
			return cart, nil
		}
		// Lost the create race; re-read the concurrently created cart.
	}
	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// publishUpdated emits cart.updated; publish failures are logged, never
// surfaced, because the cart state is already persisted.
func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
