package domain

// PaymentMethod identifies one of the two payment instruments the
// processor accepts through this bridge.
type PaymentMethod string

const (
	MethodCreditCard  PaymentMethod = "creditcard"
	MethodDirectDebit PaymentMethod = "directdebit"
)

// Platform-level method codes as they arrive from the shop checkout.
// Kept alongside the canonical names so callers can pass either form.
const (
	platformCodeCreditCard  = "paymill_creditcard"
	platformCodeDirectDebit = "paymill_directdebit"
)

// Valid reports whether m is one of the supported methods.
func (m PaymentMethod) Valid() bool {
	return m == MethodCreditCard || m == MethodDirectDebit
}

// Tag returns the short type tag the processor API expects for this
// method: "cc" for credit card, "elv" for direct debit.
func (m PaymentMethod) Tag() string {
	switch m {
	case MethodCreditCard:
		return "cc"
	case MethodDirectDebit:
		return "elv"
	}
	return ""
}

// ParsePaymentMethod resolves a method code into a PaymentMethod. It
// accepts both the canonical names and the platform checkout codes
// (paymill_creditcard, paymill_directdebit). Unknown codes are a
// configuration error, never a silent default.
func ParsePaymentMethod(code string) (PaymentMethod, error) {
	switch code {
	case string(MethodCreditCard), platformCodeCreditCard:
		return MethodCreditCard, nil
	case string(MethodDirectDebit), platformCodeDirectDebit:
		return MethodDirectDebit, nil
	}
	return "", NewDomainError(ErrorCodeConfigUnsupportedMethod, "unsupported payment method code").
		WithDetail("code", code)
}
