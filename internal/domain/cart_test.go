package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================================
// Subtotal / ItemCount
// ============================================================================

func TestSubtotal_SingleItem(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{UnitPrice: price("25.00"), Quantity: 2},
	}}
	assert.Equal(t, "50.00", c.Subtotal().StringFixed(2))
}

func TestSubtotal_MultipleItems(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{UnitPrice: price("25.00"), Quantity: 2},
		{UnitPrice: price("5.00"), Quantity: 3},
		{UnitPrice: price("12.50"), Quantity: 1},
	}}
	// 50.00 + 15.00 + 12.50 = 77.50
	assert.Equal(t, "77.50", c.Subtotal().StringFixed(2))
}

func TestSubtotal_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.Subtotal().IsZero())
}

func TestItemCount(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{Quantity: 2},
		{Quantity: 3},
		{Quantity: 1},
	}}
	assert.Equal(t, 6, c.ItemCount())
}

func TestItemCount_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.ItemCount())
}

func TestLineTotal(t *testing.T) {
	item := CartItem{UnitPrice: price("12.50"), Quantity: 3}
	assert.Equal(t, "37.50", item.LineTotal().StringFixed(2))
}

// ============================================================================
// AddOrMergeItem
// ============================================================================

func TestAddOrMergeItem_AppendsNewLine(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("25.00")})
	c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "pdf", Year: 2026, Quantity: 1, UnitPrice: price("5.00")})

	require.Len(t, c.Items, 2)
	assert.Equal(t, "30.00", c.Subtotal().StringFixed(2))
}

func TestAddOrMergeItem_MergesMatchingLine(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("25.00")})
	merged := c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "print", Year: 2026, Quantity: 2, UnitPrice: price("25.00")})

	require.Len(t, c.Items, 1)
	assert.Equal(t, "item-1", merged.ID)
	assert.Equal(t, 3, merged.Quantity)
}

func TestAddOrMergeItem_MergeKeepsSnapshottedPrice(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("25.00")})
	// Catalog price changed between the two adds; the open line must not move.
	merged := c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("30.00")})

	assert.Equal(t, "25.00", merged.UnitPrice.StringFixed(2))
	assert.Equal(t, "50.00", c.Subtotal().StringFixed(2))
}

func TestAddOrMergeItem_DifferentYearIsNewLine(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("25.00")})
	c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "print", Year: 2027, Quantity: 1, UnitPrice: price("25.00")})

	assert.Len(t, c.Items, 2)
}

func TestAddOrMergeItem_DifferentConfigurationIsNewLine(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1,
		UnitPrice: price("25.00"), Configuration: json.RawMessage(`{"theme":"forest"}`)})
	c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "print", Year: 2026, Quantity: 1,
		UnitPrice: price("25.00"), Configuration: json.RawMessage(`{"theme":"ocean"}`)})

	assert.Len(t, c.Items, 2)
}

func TestAddOrMergeItem_NilAndEmptyConfigurationMerge(t *testing.T) {
	c := &Cart{}
	c.AddOrMergeItem(CartItem{ID: "item-1", ProductCode: "print", Year: 2026, Quantity: 1, UnitPrice: price("25.00")})
	c.AddOrMergeItem(CartItem{ID: "item-2", ProductCode: "print", Year: 2026, Quantity: 1,
		UnitPrice: price("25.00"), Configuration: json.RawMessage{}})

	assert.Len(t, c.Items, 1)
}

// ============================================================================
// SetItemQuantity / RemoveItem / Clear
// ============================================================================

func TestSetItemQuantity_UpdatesQuantity(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1", UnitPrice: price("12.50"), Quantity: 1}}}

	ok := c.SetItemQuantity("item-1", 3)

	assert.True(t, ok)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "37.50", c.Items[0].LineTotal().StringFixed(2))
}

func TestSetItemQuantity_ZeroRemovesItem(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1", Quantity: 2}}}

	ok := c.SetItemQuantity("item-1", 0)

	assert.True(t, ok)
	assert.Empty(t, c.Items)
}

func TestSetItemQuantity_NegativeRemovesItem(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1", Quantity: 2}}}

	ok := c.SetItemQuantity("item-1", -5)

	assert.True(t, ok)
	assert.Empty(t, c.Items)
}

func TestSetItemQuantity_UnknownItemIsNoOp(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1", Quantity: 2}}}

	ok := c.SetItemQuantity("item-999", 5)

	assert.False(t, ok)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1"}, {ID: "item-2"}}}

	assert.True(t, c.RemoveItem("item-1"))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "item-2", c.Items[0].ID)

	// Idempotent: removing again is a no-op.
	assert.False(t, c.RemoveItem("item-1"))
	assert.Len(t, c.Items, 1)
}

func TestClear(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "item-1"}, {ID: "item-2"}}}
	c.Clear()
	assert.Empty(t, c.Items)

	// Clearing an already-empty cart succeeds.
	c.Clear()
	assert.Empty(t, c.Items)
}

// ============================================================================
// Aggregate consistency under random operation sequences
// ============================================================================

// TestAggregateConsistency_RandomOperations drives the aggregate through
// seeded random add/update/remove/clear sequences and checks after every
// mutation that the subtotal equals the sum of current line totals and the
// item count equals the sum of current quantities.
func TestAggregateConsistency_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(20260824))
	codes := []string{"print", "pdf"}
	prices := []decimal.Decimal{price("25.00"), price("5.00"), price("12.50")}

	c := &Cart{}
	nextID := 0

	checkInvariants := func() {
		t.Helper()
		expected := decimal.Zero
		count := 0
		for i := range c.Items {
			require.Positive(t, c.Items[i].Quantity, "stored quantity must be >= 1")
			expected = expected.Add(c.Items[i].LineTotal())
			count += c.Items[i].Quantity
		}
		require.True(t, c.Subtotal().Equal(expected),
			"subtotal %s != sum of line totals %s", c.Subtotal(), expected)
		require.Equal(t, count, c.ItemCount())
	}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(10) {
		case 0, 1, 2, 3: // add
			nextID++
			c.AddOrMergeItem(CartItem{
				ID:          fmt.Sprintf("item-%d", nextID),
				ProductCode: codes[rng.Intn(len(codes))],
				Year:        2025 + rng.Intn(3),
				Quantity:    1 + rng.Intn(4),
				UnitPrice:   prices[rng.Intn(len(prices))],
			})
		case 4, 5, 6: // update quantity, sometimes to a removing value
			if len(c.Items) > 0 {
				c.SetItemQuantity(c.Items[rng.Intn(len(c.Items))].ID, rng.Intn(6)-1)
			}
		case 7, 8: // remove
			if len(c.Items) > 0 {
				c.RemoveItem(c.Items[rng.Intn(len(c.Items))].ID)
			}
		case 9:
			c.Clear()
		}
		checkInvariants()
	}
}

// ============================================================================
// Projection
// ============================================================================

func TestNewCartView(t *testing.T) {
	c := &Cart{
		ID: "cart-1",
		Items: []CartItem{
			{ID: "item-1", ProductCode: "print", DisplayName: "Calendar 2026", Year: 2026, Quantity: 2, UnitPrice: price("25.00")},
			{ID: "item-2", ProductCode: "pdf", DisplayName: "Calendar 2026", Year: 2026, Quantity: 1, UnitPrice: price("5.00")},
		},
	}

	view := NewCartView(c)

	assert.Equal(t, "cart-1", view.ID)
	assert.Equal(t, "55.00", view.Subtotal)
	assert.Equal(t, "0.00", view.TaxAmount)
	assert.Equal(t, "55.00", view.TotalAmount)
	assert.Equal(t, 3, view.ItemCount)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "25.00", view.Items[0].UnitPrice)
	assert.Equal(t, "50.00", view.Items[0].LineTotal)
}

func TestNewCartView_TotalEqualsSubtotalPlusTax(t *testing.T) {
	view := NewCartView(&Cart{ID: "cart-1"})
	assert.Equal(t, "0.00", view.Subtotal)
	assert.Equal(t, "0.00", view.TaxAmount)
	assert.Equal(t, "0.00", view.TotalAmount)
	assert.Empty(t, view.Items)
}
