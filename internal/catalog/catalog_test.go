package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

func TestNewDefault_Prices(t *testing.T) {
	c := NewDefault()

	printPrice, err := c.Price("print")
	require.NoError(t, err)
	assert.Equal(t, "25.00", printPrice.StringFixed(2))

	pdfPrice, err := c.Price("pdf")
	require.NoError(t, err)
	assert.Equal(t, "5.00", pdfPrice.StringFixed(2))
}

func TestPrice_UnknownCode(t *testing.T) {
	c := NewDefault()

	_, err := c.Price("unknown")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "unknown product code")
}

func TestList_DisplayOrder(t *testing.T) {
	c := NewDefault()

	products := c.List()

	require.Len(t, products, 2)
	assert.Equal(t, "print", products[0].Code)
	assert.Equal(t, "pdf", products[1].Code)
}

func TestList_TieBreakByCode(t *testing.T) {
	c := New([]Product{
		{Code: "zeta", DisplayOrder: 1},
		{Code: "alpha", DisplayOrder: 1},
		{Code: "first", DisplayOrder: 0},
	}, "first")

	products := c.List()

	require.Len(t, products, 3)
	assert.Equal(t, "first", products[0].Code)
	assert.Equal(t, "alpha", products[1].Code)
	assert.Equal(t, "zeta", products[2].Code)
}

func TestList_ReturnsCopy(t *testing.T) {
	c := NewDefault()

	products := c.List()
	products[0].Price = decimal.RequireFromString("999.99")

	fresh, err := c.Price("print")
	require.NoError(t, err)
	assert.Equal(t, "25.00", fresh.StringFixed(2))
}

func TestGet(t *testing.T) {
	c := NewDefault()

	p, ok := c.Get("print")
	require.True(t, ok)
	assert.Equal(t, "Printed Calendar", p.Name)
	assert.NotEmpty(t, p.Features)

	_, ok = c.Get("unknown")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	c := NewDefault()
	assert.True(t, c.IsValid("print"))
	assert.True(t, c.IsValid("pdf"))
	assert.False(t, c.IsValid("unknown"))
}

func TestDefaultCode(t *testing.T) {
	assert.Equal(t, "print", NewDefault().DefaultCode())
}
