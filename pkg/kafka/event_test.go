package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartClearedPayload struct {
	SessionID string `json:"session_id"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("shop.cart.cleared", "sess-1", "cart", "cart-service", cartClearedPayload{SessionID: "sess-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "shop.cart.cleared", evt.EventType)
	assert.Equal(t, "sess-1", evt.AggregateID)
	assert.Equal(t, "cart", evt.AggregateType)
	assert.Equal(t, "cart-service", evt.Source)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_DataRoundTrip(t *testing.T) {
	evt, err := NewEvent("shop.cart.cleared", "sess-1", "cart", "cart-service", cartClearedPayload{SessionID: "sess-1"})
	require.NoError(t, err)

	var got cartClearedPayload
	require.NoError(t, evt.UnmarshalData(&got))
	assert.Equal(t, "sess-1", got.SessionID)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	evt, err := NewEvent("shop.cart.updated", "sess-1", "cart", "cart-service", nil)
	require.NoError(t, err)

	evt.WithCorrelationID("corr-7")
	assert.Equal(t, "corr-7", evt.CorrelationID)
}
