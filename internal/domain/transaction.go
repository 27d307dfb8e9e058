package domain

import (
	"time"
)

// TransactionStatus tracks the local lifecycle of one checkout attempt's
// transaction record.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusCaptured TransactionStatus = "captured"
	TransactionStatusFailed   TransactionStatus = "failed"
)

// Preauthorization is the transient processor-side funds reservation. It
// is held only for the duration of one checkout and never persisted on
// its own; its id feeds the capture step.
type Preauthorization struct {
	ID          string
	AmountCents int64
	Currency    string
	Status      string
}

// TransactionRecord is the persisted outcome of one checkout attempt.
// PreAuthenticated marks orders charged via pre-auth-then-capture rather
// than a direct charge; the invoice trigger consults it after checkout.
type TransactionRecord struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ID                 string
	OrderReference     string
	TransactionID      string
	PreauthorizationID string
	Description        string
	Currency           string
	PaymentMethod      PaymentMethod
	Status             TransactionStatus
	AmountCents        int64
	PreAuthAmountCents int64
	ResponseCode       int
	Success            bool
	PreAuthenticated   bool
}

// GatewayTransaction is the processor's response to a capture-from-preauth
// call, before it is folded into the local TransactionRecord.
type GatewayTransaction struct {
	ID                 string
	PreauthorizationID string
	AmountCents        int64
	Currency           string
	Description        string
	ResponseCode       int
	Status             string
}

// FastCheckoutRecord associates a shop customer with the processor-side
// client and payment identifiers created for one payment method. At most
// one record exists per (UserID, Method) pair; repeat checkouts update it
// in place.
type FastCheckoutRecord struct {
	UpdatedAt time.Time
	UserID    string
	Method    PaymentMethod
	ClientID  string
	PaymentID string
}
