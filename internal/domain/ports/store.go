package ports

import (
	"context"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

// FastCheckoutStore persists the (user, payment method) to (processor
// client, processor payment) association used by the fast-checkout path.
type FastCheckoutStore interface {
	// LookupClientID returns the most recently updated client id for the
	// user across any payment-method record. With records for several
	// method types this is an any-match convenience lookup, not an
	// identity guarantee. ok is false when the user has no records.
	LookupClientID(ctx context.Context, userID string) (clientID string, ok bool, err error)

	// LookupPaymentID returns the payment id for the exact
	// (userID, method) pair. ok is false on no match; absence is never
	// an error.
	LookupPaymentID(ctx context.Context, userID string, method domain.PaymentMethod) (paymentID string, ok bool, err error)

	// HasData reports whether a record exists for (userID, method).
	HasData(ctx context.Context, userID string, method domain.PaymentMethod) (bool, error)

	// Save upserts the record for (userID, method): an existing record
	// is updated in place, never duplicated. The upsert is atomic per
	// (userID, method) so concurrent checkouts cannot lose updates.
	// Saving with an empty userID is a no-op, not an error: anonymous
	// checkouts must not persist fast-checkout data.
	Save(ctx context.Context, method domain.PaymentMethod, userID, clientID, paymentID string) error
}

// TransactionRepository persists the per-attempt transaction records the
// invoice trigger consults after checkout.
type TransactionRepository interface {
	Create(ctx context.Context, rec *domain.TransactionRecord) error

	// UpdateOutcome records the terminal state of an attempt.
	UpdateOutcome(ctx context.Context, rec *domain.TransactionRecord) error

	// GetByOrderReference returns the latest record for an order
	// reference, or domain.ErrTxnNotFound.
	GetByOrderReference(ctx context.Context, orderReference string) (*domain.TransactionRecord, error)
}

// SessionCache holds the tolerance-adjusted pre-authorization amount for
// the duration of one checkout session, so the capture step works from
// the same figure the pre-auth used.
type SessionCache interface {
	SetPreAuthAmount(ctx context.Context, sessionID string, method domain.PaymentMethod, amountCents int64) error
	GetPreAuthAmount(ctx context.Context, sessionID string, method domain.PaymentMethod) (amountCents int64, ok bool, err error)
}
