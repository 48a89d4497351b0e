package accounting

import "github.com/shopspring/decimal"

// DefaultScale is the fixed decimal scale used for presentation and
// balance comparison throughout the engine.
const DefaultScale int32 = 2

// BalanceTolerance is the absolute tolerance used when comparing
// aggregates that may carry base-currency rounding differences.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// RoundToDecimalPlaces rounds half-up at the given scale. Amounts in the
// engine are non-negative, so round-half-away-from-zero and round-half-up
// coincide. The operation is idempotent.
func RoundToDecimalPlaces(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundMoney rounds to the engine's fixed two-decimal scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return RoundToDecimalPlaces(d, DefaultScale)
}

// WithinTolerance reports whether two amounts differ by less than the
// balance tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}
