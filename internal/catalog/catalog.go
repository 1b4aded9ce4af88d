package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

// Product is an immutable catalog entry for a purchasable calendar format.
type Product struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Features     []string        `json:"features"`
	Icon         string          `json:"icon"`
	Badge        string          `json:"badge,omitempty"`
	DisplayOrder int             `json:"display_order"`
}

// Provider is the read-only catalog capability handed to services at
// construction time, so tests can substitute a fixture catalog without
// touching process-wide state.
type Provider interface {
	// List returns all products sorted ascending by display order,
	// tie-broken by code so the ordering is deterministic.
	List() []Product

	// Get returns the product with the given code, or false.
	Get(code string) (Product, bool)

	// Price returns the price for the given code, or InvalidInput if the
	// code is not registered.
	Price(code string) (decimal.Decimal, error)

	// IsValid reports whether the code is registered.
	IsValid(code string) bool

	// DefaultCode returns the designated default product code.
	DefaultCode() string
}

// Catalog is an immutable in-memory Provider, fixed at construction.
type Catalog struct {
	products    map[string]Product
	ordered     []Product
	defaultCode string
}

// New builds a catalog from the given products. The product list is copied
// and sorted once; the catalog never changes afterward.
func New(products []Product, defaultCode string) *Catalog {
	byCode := make(map[string]Product, len(products))
	ordered := make([]Product, len(products))
	copy(ordered, products)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].Code < ordered[j].Code
	})
	for _, p := range ordered {
		byCode[p.Code] = p
	}

	return &Catalog{
		products:    byCode,
		ordered:     ordered,
		defaultCode: defaultCode,
	}
}

// NewDefault returns the production calendar catalog.
func NewDefault() *Catalog {
	return New([]Product{
		{
			Code:        "print",
			Name:        "Printed Calendar",
			Description: "A 12-month wall calendar, printed and shipped to your door.",
			Price:       decimal.RequireFromString("25.00"),
			Features: []string{
				"Premium 100lb paper",
				"11\" x 17\" wall format",
				"Your holidays and photos on every month",
			},
			Icon:         "calendar-print",
			Badge:        "Most popular",
			DisplayOrder: 1,
		},
		{
			Code:        "pdf",
			Name:        "PDF Calendar",
			Description: "A downloadable PDF of your calendar, ready to print at home.",
			Price:       decimal.RequireFromString("5.00"),
			Features: []string{
				"Instant download",
				"Print at any size",
			},
			Icon:         "calendar-pdf",
			DisplayOrder: 2,
		},
	}, "print")
}

// List returns all products in display order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get returns the product with the given code.
func (c *Catalog) Get(code string) (Product, bool) {
	p, ok := c.products[code]
	return p, ok
}

// Price returns the price for the given code.
func (c *Catalog) Price(code string) (decimal.Decimal, error) {
	p, ok := c.products[code]
	if !ok {
		return decimal.Zero, apperrors.InvalidInput(fmt.Sprintf("unknown product code %q", code))
	}
	return p.Price, nil
}

// IsValid reports whether the code is registered.
func (c *Catalog) IsValid(code string) bool {
	_, ok := c.products[code]
	return ok
}

// DefaultCode returns the designated default product code.
func (c *Catalog) DefaultCode() string {
	return c.defaultCode
}
