package accounting_test

import (
	"testing"

	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	"github.com/irfndi/accounting-finance-manager/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToDecimalPlaces(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.344", "12.34"},
		{"12.345", "12.35"}, // half rounds up
		{"12.3", "12.3"},
		{"0.005", "0.01"},
		{"100", "100"},
	}
	for _, tc := range cases {
		got := accounting.RoundToDecimalPlaces(decimal.RequireFromString(tc.in), 2)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"round(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestRoundToDecimalPlaces_Idempotent(t *testing.T) {
	for _, s := range []string{"12.345", "0.004999", "99999.995", "1.005", "7"} {
		once := accounting.RoundToDecimalPlaces(decimal.RequireFromString(s), 2)
		twice := accounting.RoundToDecimalPlaces(once, 2)
		assert.True(t, once.Equal(twice), "rounding %s is not idempotent", s)
	}
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, accounting.WithinTolerance(
		decimal.RequireFromString("10.004"), decimal.RequireFromString("10.00")))
	// Tolerance is strict: a full cent of difference is out.
	assert.False(t, accounting.WithinTolerance(
		decimal.RequireFromString("10.01"), decimal.RequireFromString("10.00")))
}

func TestReportedBalance(t *testing.T) {
	debits := decimal.NewFromInt(100)
	credits := decimal.NewFromInt(30)

	assert.True(t, decimal.NewFromInt(70).Equal(
		accounting.ReportedBalance(domain.DebitNormal, debits, credits)))
	assert.True(t, decimal.NewFromInt(-70).Equal(
		accounting.ReportedBalance(domain.CreditNormal, debits, credits)))
}

func TestSignedEntryAmount(t *testing.T) {
	entry := domain.JournalEntry{
		AccountID:       1000,
		BaseDebitAmount: decimal.NewFromInt(50),
	}

	amount, err := accounting.SignedEntryAmount(entry, domain.Asset)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(amount))

	amount, err = accounting.SignedEntryAmount(entry, domain.Liability)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-50).Equal(amount))

	_, err = accounting.SignedEntryAmount(entry, domain.AccountType("BOGUS"))
	assert.Error(t, err)
}
