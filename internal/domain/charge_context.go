package domain

import (
	"github.com/shopspring/decimal"
)

// OrderSource is the narrow view of an order or quote the bridge needs.
// The shop platform resolves order-vs-quote before construction; this
// package never dispatches on the concrete type behind it.
type OrderSource interface {
	GrandTotal() decimal.Decimal
	ReferenceID() string
	CustomerEmail() string
	CustomerName() string
}

// Currencies whose minor unit is not 1/100 of the major unit. Charging
// these through a 1:100 scaler would silently miscompute, so they are
// rejected at construction time.
var nonCentCurrencies = map[string]struct{}{
	"BHD": {}, "CLP": {}, "ISK": {}, "JPY": {}, "JOD": {},
	"KRW": {}, "KWD": {}, "OMR": {}, "TND": {}, "VND": {},
}

// ChargeContext is the immutable per-attempt value derived from an order
// or quote. It is constructed once per checkout attempt and discarded
// after the orchestration call returns.
type ChargeContext struct {
	AmountCents    int64
	Currency       string
	OrderReference string
	CustomerEmail  string
	CustomerName   string
	Description    string
}

// NewChargeContext derives a ChargeContext from an order source and the
// store currency. The amount is the grand total scaled to integer minor
// units (cents); only currencies with a 1:100 minor-unit ratio are
// supported. The description is "{orderReference}, {customerEmail}".
func NewChargeContext(src OrderSource, currency string) (ChargeContext, error) {
	if _, ok := nonCentCurrencies[currency]; ok {
		return ChargeContext{}, NewDomainError(ErrorCodeConfigUnsupportedCurrency,
			"currency does not use a 1:100 minor-unit ratio").WithDetail("currency", currency)
	}

	ref := src.ReferenceID()
	if ref == "" {
		return ChargeContext{}, ErrReferenceMissing
	}

	email := src.CustomerEmail()

	return ChargeContext{
		AmountCents:    AmountCents(src.GrandTotal()),
		Currency:       currency,
		OrderReference: ref,
		CustomerEmail:  email,
		CustomerName:   src.CustomerName(),
		Description:    ref + ", " + email,
	}, nil
}

// AmountCents scales a decimal grand total to integer minor units,
// rounding at the cent boundary. decimal arithmetic keeps totals like
// 49.99 from drifting through binary floating point.
func AmountCents(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
