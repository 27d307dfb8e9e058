package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrder struct {
	total decimal.Decimal
	ref   string
	email string
	name  string
}

func (s stubOrder) GrandTotal() decimal.Decimal { return s.total }
func (s stubOrder) ReferenceID() string         { return s.ref }
func (s stubOrder) CustomerEmail() string       { return s.email }
func (s stubOrder) CustomerName() string        { return s.name }

func TestNewChargeContext(t *testing.T) {
	src := stubOrder{
		total: decimal.RequireFromString("49.99"),
		ref:   "100000123",
		email: "a@b.com",
		name:  "Ada Lovelace",
	}

	ctx, err := NewChargeContext(src, "EUR")
	require.NoError(t, err)

	assert.Equal(t, int64(4999), ctx.AmountCents)
	assert.Equal(t, "EUR", ctx.Currency)
	assert.Equal(t, "100000123", ctx.OrderReference)
	assert.Equal(t, "100000123, a@b.com", ctx.Description)
}

func TestNewChargeContext_MissingReference(t *testing.T) {
	src := stubOrder{total: decimal.NewFromInt(10), email: "a@b.com"}

	_, err := NewChargeContext(src, "EUR")
	require.Error(t, err)
	assert.Equal(t, ErrorCodeReferenceMissing, GetErrorCode(err))
}

func TestNewChargeContext_NonCentCurrency(t *testing.T) {
	src := stubOrder{total: decimal.NewFromInt(1000), ref: "100000123", email: "a@b.com"}

	_, err := NewChargeContext(src, "JPY")
	require.Error(t, err)
	assert.Equal(t, ErrorCodeConfigUnsupportedCurrency, GetErrorCode(err))
	assert.True(t, IsConfigurationError(err))
}

func TestNewChargeContext_ZeroTotal(t *testing.T) {
	src := stubOrder{total: decimal.Zero, ref: "100000124", email: "a@b.com"}

	ctx, err := NewChargeContext(src, "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(0), ctx.AmountCents)
}

func TestAmountCents(t *testing.T) {
	tests := []struct {
		total string
		want  int64
	}{
		{"0", 0},
		{"0.01", 1},
		{"1", 100},
		{"49.99", 4999},
		{"19.995", 2000},
		{"1234.56", 123456},
	}
	for _, tc := range tests {
		got := AmountCents(decimal.RequireFromString(tc.total))
		assert.Equal(t, tc.want, got, "total %s", tc.total)
	}
}
