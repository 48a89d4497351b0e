package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
)

// currencyService is an in-memory currency catalog. It backs the
// INVALID_CURRENCY validation check and display precision.
type currencyService struct {
	byCode map[string]domain.Currency
}

// NewCurrencyService creates a catalog from the given currencies, or the
// default seeded set when none are supplied.
func NewCurrencyService(currencies ...domain.Currency) portssvc.CurrencySvcFacade {
	if len(currencies) == 0 {
		currencies = defaultCurrencies()
	}
	byCode := make(map[string]domain.Currency, len(currencies))
	for _, currency := range currencies {
		byCode[strings.ToUpper(currency.CurrencyCode)] = currency
	}
	return &currencyService{byCode: byCode}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func defaultCurrencies() []domain.Currency {
	return []domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2},
		{CurrencyCode: "GBP", Symbol: "£", Name: "Pound Sterling", Precision: 2},
		{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0},
		{CurrencyCode: "CAD", Symbol: "$", Name: "Canadian Dollar", Precision: 2},
		{CurrencyCode: "AUD", Symbol: "$", Name: "Australian Dollar", Precision: 2},
		{CurrencyCode: "CHF", Symbol: "Fr", Name: "Swiss Franc", Precision: 2},
	}
}

// GetCurrencyByCode returns the currency with the given code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	currency, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
	}
	return &currency, nil
}

// ListCurrencies returns the catalog sorted by code.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies := make([]domain.Currency, 0, len(s.byCode))
	for _, currency := range s.byCode {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].CurrencyCode < currencies[j].CurrencyCode
	})
	return currencies, nil
}
