package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Cart represents a shopper session's cart. All mutation methods are pure
// in-memory operations; persistence is the repository's concern.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem represents a single calendar line in the cart. UnitPrice is
// snapshotted when the line is created and never recomputed from the catalog,
// so a later catalog price change cannot alter an open cart.
type CartItem struct {
	ID            string          `json:"id"`
	ProductCode   string          `json:"product_code"`
	DisplayName   string          `json:"display_name"`
	Year          int             `json:"year"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// LineTotal returns unit price times quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal sums the line totals of all items.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindItemIndex returns the index of the cart item with the given ID, or -1.
func (c *Cart) FindItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// findLineIndex returns the index of the line matching product code, year,
// and configuration payload, or -1. Configuration is compared byte-for-byte;
// an absent payload and an empty payload are treated as equal.
func (c *Cart) findLineIndex(productCode string, year int, configuration json.RawMessage) int {
	for i := range c.Items {
		if c.Items[i].ProductCode == productCode &&
			c.Items[i].Year == year &&
			bytes.Equal(c.Items[i].Configuration, configuration) {
			return i
		}
	}
	return -1
}

// AddOrMergeItem appends the item, or merges it into an existing line when
// product code, year, and configuration all match. A merge only increases
// the quantity; the existing line keeps its snapshotted unit price.
// Returns the resulting line.
func (c *Cart) AddOrMergeItem(item CartItem) CartItem {
	if idx := c.findLineIndex(item.ProductCode, item.Year, item.Configuration); idx >= 0 {
		c.Items[idx].Quantity += item.Quantity
		return c.Items[idx]
	}
	c.Items = append(c.Items, item)
	return item
}

// SetItemQuantity sets the quantity of the item with the given ID. A quantity
// of zero or less removes the line instead of storing a non-positive count.
// Returns false if no item with that ID exists in this cart; items owned by
// another session's cart are indistinguishable from missing ones here, which
// is what keeps cross-session mutations a no-op.
func (c *Cart) SetItemQuantity(itemID string, quantity int) bool {
	idx := c.FindItemIndex(itemID)
	if idx < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return true
	}
	c.Items[idx].Quantity = quantity
	return true
}

// RemoveItem removes the item with the given ID. Removal is idempotent:
// a missing ID returns false and leaves the cart unchanged.
func (c *Cart) RemoveItem(itemID string) bool {
	idx := c.FindItemIndex(itemID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return true
}

// Clear removes all items. Clearing an empty cart is a no-op.
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
}
