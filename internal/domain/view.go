package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartView is the external projection of a cart. Amounts are formatted with
// two-digit precision so the wire shape is stable regardless of how the
// decimals were constructed.
type CartView struct {
	ID          string         `json:"id"`
	Subtotal    string         `json:"subtotal"`
	TaxAmount   string         `json:"tax_amount"`
	TotalAmount string         `json:"total_amount"`
	ItemCount   int            `json:"item_count"`
	Items       []CartItemView `json:"items"`
}

// CartItemView is the external projection of a single cart line.
type CartItemView struct {
	ID            string          `json:"id"`
	ProductCode   string          `json:"product_code"`
	DisplayName   string          `json:"display_name"`
	Year          int             `json:"year"`
	Quantity      int             `json:"quantity"`
	UnitPrice     string          `json:"unit_price"`
	LineTotal     string          `json:"line_total"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// NewCartView projects the cart into its external read shape. Tax is an
// explicit zero placeholder: total = subtotal + tax with no tax rules yet.
func NewCartView(c *Cart) *CartView {
	items := make([]CartItemView, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		items[i] = CartItemView{
			ID:            item.ID,
			ProductCode:   item.ProductCode,
			DisplayName:   item.DisplayName,
			Year:          item.Year,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice.StringFixed(2),
			LineTotal:     item.LineTotal().StringFixed(2),
			Configuration: item.Configuration,
		}
	}

	subtotal := c.Subtotal()
	tax := decimal.Zero
	return &CartView{
		ID:          c.ID,
		Subtotal:    subtotal.StringFixed(2),
		TaxAmount:   tax.StringFixed(2),
		TotalAmount: subtotal.Add(tax).StringFixed(2),
		ItemCount:   c.ItemCount(),
		Items:       items,
	}
}
