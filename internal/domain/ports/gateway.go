package ports

import (
	"context"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

// PreauthorizationRequest reserves funds against a registered payment
// without capturing them.
type PreauthorizationRequest struct {
	PaymentID   string
	AmountCents int64
	Currency    string
	Source      string
}

// CaptureRequest settles a previously reserved amount. The settled amount
// may legitimately differ from the reserved (tolerance-adjusted) one.
type CaptureRequest struct {
	PreauthorizationID string
	AmountCents        int64
	Currency           string
	Description        string
	Source             string
}

// ProcessorGateway is the typed wrapper over the payment processor API.
// All four operations are idempotency-unsafe remote calls: each requires
// a configured credential (checked before any network I/O) and classifies
// any non-success response code as a gateway error carrying the raw code
// and payload.
type ProcessorGateway interface {
	// CreateClient registers a processor-side client for the customer.
	CreateClient(ctx context.Context, email, description string) (clientID string, err error)

	// CreatePayment exchanges a single-use token for a reusable payment
	// id registered against an existing client.
	CreatePayment(ctx context.Context, token, clientID string) (paymentID string, err error)

	// CreatePreauthorization reserves funds without capturing.
	CreatePreauthorization(ctx context.Context, req PreauthorizationRequest) (*domain.Preauthorization, error)

	// CreateTransactionFromPreauth captures a previously reserved amount.
	CreateTransactionFromPreauth(ctx context.Context, req CaptureRequest) (*domain.GatewayTransaction, error)
}
