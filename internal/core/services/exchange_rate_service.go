package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// StaticRateProvider is a table-backed ExchangeRateProvider. Rates are
// seeded at construction and never refreshed; production hosts substitute
// a live feed behind the same port without touching validation logic.
type StaticRateProvider struct {
	rates map[string]decimal.Decimal
}

// Ensure StaticRateProvider implements the provider port.
var _ portssvc.ExchangeRateProvider = (*StaticRateProvider)(nil)

// NewStaticRateProvider creates a provider from from->to rate pairs keyed
// "FROM/TO". Codes are normalized to upper case.
func NewStaticRateProvider(rates map[string]decimal.Decimal) *StaticRateProvider {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for pair, rate := range rates {
		normalized[strings.ToUpper(pair)] = rate
	}
	return &StaticRateProvider{rates: normalized}
}

// DefaultRateTable seeds the placeholder table used when no feed is wired.
func DefaultRateTable() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"EUR/USD": decimal.RequireFromString("1.08"),
		"GBP/USD": decimal.RequireFromString("1.27"),
		"JPY/USD": decimal.RequireFromString("0.0067"),
		"CAD/USD": decimal.RequireFromString("0.73"),
		"AUD/USD": decimal.RequireFromString("0.66"),
		"CHF/USD": decimal.RequireFromString("1.13"),
	}
}

// Rate returns the conversion rate from one currency to another. Same-
// currency pairs return exactly 1. Unknown pairs fall back to the inverse
// of the reverse pair before failing with ErrNotFound.
func (p *StaticRateProvider) Rate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := p.rates[fromCode+"/"+toCode]; ok {
		if !rate.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: non-positive rate configured for %s/%s", apperrors.ErrValidation, fromCode, toCode)
		}
		return rate, nil
	}
	if inverse, ok := p.rates[toCode+"/"+fromCode]; ok && inverse.IsPositive() {
		return decimal.NewFromInt(1).Div(inverse), nil
	}
	return decimal.Zero, fmt.Errorf("%w: no exchange rate for %s/%s", apperrors.ErrNotFound, fromCode, toCode)
}
