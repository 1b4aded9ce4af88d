package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teacurran/village-calendar/internal/domain"
	pkgkafka "github.com/teacurran/village-calendar/pkg/kafka"
)

// Kafka topic constants for cart domain events.
const (
	TopicCartUpdated = "shop.cart.updated"
	TopicCartCleared = "shop.cart.cleared"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from this service.
const SourceCartService = "cart-service"

// CartUpdatedData is the payload for a cart.updated event. Amounts carry
// two-digit precision strings, matching the external projection.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	CartID      string         `json:"cart_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	Subtotal    string         `json:"subtotal"`
	TotalAmount string         `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ItemID      string `json:"item_id"`
	ProductCode string `json:"product_code"`
	DisplayName string `json:"display_name"`
	Year        int    `json:"year"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	CartID    string `json:"cart_id"`
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the cart service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		items[i] = CartItemData{
			ItemID:      item.ID,
			ProductCode: item.ProductCode,
			DisplayName: item.DisplayName,
			Year:        item.Year,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
		}
	}

	subtotal := cart.Subtotal()
	data := CartUpdatedData{
		SessionID:   cart.SessionID,
		CartID:      cart.ID,
		Items:       items,
		ItemCount:   cart.ItemCount(),
		Subtotal:    subtotal.StringFixed(2),
		TotalAmount: subtotal.StringFixed(2),
	}

	evt, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, evt); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, cart *domain.Cart) error {
	data := CartClearedData{SessionID: cart.SessionID, CartID: cart.ID}

	evt, err := pkgkafka.NewEvent(TopicCartCleared, cart.SessionID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, evt); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", cart.SessionID),
	)

	return nil
}
