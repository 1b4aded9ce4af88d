package shipping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/teacurran/village-calendar/pkg/errors"
)

// Tier identifies a shipping service level. Only TierStandard is wired into
// quote resolution today; the other tiers exist so the rate table and config
// surface do not need restructuring when tier selection lands.
type Tier string

const (
	TierStandard      Tier = "standard"
	TierPriority      Tier = "priority"
	TierExpress       Tier = "express"
	TierInternational Tier = "international"
)

// domesticCountry is the only destination we can fulfill.
const domesticCountry = "US"

// RateTable maps a shipping tier to its flat rate.
type RateTable map[Tier]decimal.Decimal

// DefaultRates returns the built-in rate table.
func DefaultRates() RateTable {
	return RateTable{
		TierStandard:      decimal.RequireFromString("5.99"),
		TierPriority:      decimal.RequireFromString("15.99"),
		TierExpress:       decimal.RequireFromString("29.99"),
		TierInternational: decimal.Zero,
	}
}

// Address is a structured destination address. Country is a pointer so a
// missing or null field can be told apart from a present-but-blank one.
type Address struct {
	FullName    string  `json:"full_name,omitempty"`
	AddressLine string  `json:"address_line,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	Country     *string `json:"country"`
}

// Resolver computes shipping charges from a destination address. It is pure
// and stateless per request; safe for unlimited concurrent use.
type Resolver struct {
	rates RateTable
}

// NewResolver creates a resolver with the given rate table. Missing tiers
// fall back to the default rates.
func NewResolver(rates RateTable) *Resolver {
	merged := DefaultRates()
	for tier, rate := range rates {
		merged[tier] = rate
	}
	return &Resolver{rates: merged}
}

// Rate returns the configured rate for a tier.
func (r *Resolver) Rate(tier Tier) (decimal.Decimal, bool) {
	rate, ok := r.rates[tier]
	return rate, ok
}

// Quote validates the destination and returns the shipping charge.
//
// Malformed input (missing address, missing or blank country) is InvalidInput.
// A well-formed non-domestic destination is PolicyRejected, a business-rule
// refusal the caller must surface differently from a validation failure.
func (r *Resolver) Quote(addr *Address) (decimal.Decimal, error) {
	if addr == nil {
		return decimal.Zero, apperrors.InvalidInput("address required")
	}
	if addr.Country == nil {
		return decimal.Zero, apperrors.InvalidInput("country required")
	}

	country := strings.ToUpper(strings.TrimSpace(*addr.Country))
	if country == "" {
		return decimal.Zero, apperrors.InvalidInput("country cannot be empty")
	}

	if country != domesticCountry {
		return decimal.Zero, apperrors.PolicyRejected(
			fmt.Sprintf("international shipping to %s is not supported; only domestic addresses are accepted", country))
	}

	return r.rates[TierStandard], nil
}
