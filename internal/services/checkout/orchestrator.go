package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/pkg/observability"
)

// State names the steps of one checkout attempt. Each attempt moves
// strictly forward; any failure is terminal and a retry starts a fresh
// attempt from StateStart with a new token.
type State string

const (
	StateStart                 State = "start"
	StateTokenized             State = "tokenized"
	StateClientResolved        State = "client_resolved"
	StatePaymentMethodResolved State = "payment_method_resolved"
	StatePreAuthorized         State = "pre_authorized"
	StateCaptured              State = "captured"
	StateFailed                State = "failed"
)

// Options holds orchestrator behavior configuration
type Options struct {
	// FastCheckoutEnabled turns the stored-identifier shortcut and the
	// best-effort persistence of new identifiers on or off.
	FastCheckoutEnabled bool

	// Source is the integration tag sent with pre-auth and capture calls.
	Source string
}

// Request is one checkout attempt. Either Token (fresh tokenization) or
// StoredPaymentID (fast-checkout shortcut) must be set. UserID may be
// empty for anonymous checkouts; SessionID scopes the pre-auth amount
// cache.
type Request struct {
	Context         domain.ChargeContext
	Method          domain.PaymentMethod
	Token           string
	StoredPaymentID string
	UserID          string
	SessionID       string
}

// Orchestrator drives the charge protocol against the processor: resolve
// a payment id (stored or freshly created), reserve funds, capture them,
// and persist the resulting transaction record.
type Orchestrator struct {
	gateway ports.ProcessorGateway
	store   ports.FastCheckoutStore
	txRepo  ports.TransactionRepository
	amounts *AmountCalculator
	opts    Options
	logger  ports.Logger
}

// NewOrchestrator creates a new payment orchestrator
func NewOrchestrator(
	gateway ports.ProcessorGateway,
	store ports.FastCheckoutStore,
	txRepo ports.TransactionRepository,
	amounts *AmountCalculator,
	opts Options,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		store:   store,
		txRepo:  txRepo,
		amounts: amounts,
		opts:    opts,
		logger:  logger,
	}
}

// ProcessCheckout runs one checkout attempt. A zero amount is legal
// (fully discounted orders); an unsupported method is a configuration
// error raised before any remote call. On failure the returned error
// names the failed step and carries the processor code and payload;
// completed remote steps are never re-run, so a retry must start a new
// attempt with a fresh token. Remote state already created by a failed
// attempt (e.g. a client without a payment) is not rolled back.
func (o *Orchestrator) ProcessCheckout(ctx context.Context, req Request) (*domain.TransactionRecord, error) {
	if !req.Method.Valid() {
		return nil, domain.NewDomainError(domain.ErrorCodeConfigUnsupportedMethod,
			"unsupported payment method").WithDetail("method", string(req.Method))
	}

	path := "standard"
	paymentID := req.StoredPaymentID
	state := StateStart

	if paymentID != "" && o.opts.FastCheckoutEnabled {
		// Fast-checkout shortcut: the stored payment id replaces
		// tokenization, client and payment creation entirely.
		path = "fast"
		state = StatePaymentMethodResolved
		o.logger.Info("fast checkout: reusing stored payment",
			ports.String("order_reference", req.Context.OrderReference),
			ports.String("payment_id", paymentID))
	} else {
		if req.Token == "" {
			return nil, domain.ErrMissingToken
		}
		state = StateTokenized
	}

	rec := &domain.TransactionRecord{
		ID:             uuid.New().String(),
		OrderReference: req.Context.OrderReference,
		AmountCents:    req.Context.AmountCents,
		Currency:       req.Context.Currency,
		Description:    req.Context.Description,
		PaymentMethod:  req.Method,
		Status:         domain.TransactionStatusPending,
	}
	if err := o.txRepo.Create(ctx, rec); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "create transaction record", err)
	}

	if state == StateTokenized {
		clientID, err := o.gateway.CreateClient(ctx, req.Context.CustomerEmail, req.Context.Description)
		if err != nil {
			return nil, o.fail(ctx, rec, path, state, fmt.Errorf("create client: %w", err))
		}
		state = StateClientResolved

		paymentID, err = o.gateway.CreatePayment(ctx, req.Token, clientID)
		if err != nil {
			return nil, o.fail(ctx, rec, path, state, fmt.Errorf("create payment: %w", err))
		}
		state = StatePaymentMethodResolved

		// Best-effort cache of the identifier pair: a persistence
		// failure is logged, never aborts the checkout. Anonymous
		// checkouts (empty user id) are skipped by the store.
		if o.opts.FastCheckoutEnabled && req.UserID != "" {
			if err := o.store.Save(ctx, req.Method, req.UserID, clientID, paymentID); err != nil {
				observability.FastCheckoutSaveFailures.Inc()
				o.logger.Warn("fast checkout save failed",
					ports.String("user_id", req.UserID),
					ports.Err(err))
			}
		}
	}

	preAuthAmount := o.amounts.PreAuthAmount(ctx, req.SessionID, req.Context.AmountCents, req.Method)
	rec.PreAuthAmountCents = preAuthAmount

	preAuth, err := o.gateway.CreatePreauthorization(ctx, ports.PreauthorizationRequest{
		PaymentID:   paymentID,
		AmountCents: preAuthAmount,
		Currency:    req.Context.Currency,
		Source:      o.opts.Source,
	})
	if err != nil {
		return nil, o.fail(ctx, rec, path, state, fmt.Errorf("create preauthorization: %w", err))
	}
	state = StatePreAuthorized
	rec.PreauthorizationID = preAuth.ID

	// The settled amount may differ from the tolerance-adjusted
	// reservation; the capture always uses the order's own figure.
	txn, err := o.gateway.CreateTransactionFromPreauth(ctx, ports.CaptureRequest{
		PreauthorizationID: preAuth.ID,
		AmountCents:        req.Context.AmountCents,
		Currency:           req.Context.Currency,
		Description:        req.Context.Description,
		Source:             o.opts.Source,
	})
	if err != nil {
		return nil, o.fail(ctx, rec, path, state, fmt.Errorf("create transaction from preauthorization: %w", err))
	}

	rec.TransactionID = txn.ID
	rec.ResponseCode = txn.ResponseCode
	rec.Status = domain.TransactionStatusCaptured
	rec.Success = true
	rec.PreAuthenticated = true

	if err := o.txRepo.UpdateOutcome(ctx, rec); err != nil {
		// The charge already settled remotely; failing the attempt here
		// would invite a double charge on retry. Log loudly and hand the
		// record back.
		o.logger.Error("transaction record update failed after capture",
			ports.String("transaction_id", txn.ID),
			ports.String("order_reference", rec.OrderReference),
			ports.Err(err))
	}

	observability.CheckoutAttempts.WithLabelValues(path, "captured").Inc()
	o.logger.Info("checkout captured",
		ports.String("order_reference", rec.OrderReference),
		ports.String("transaction_id", rec.TransactionID),
		ports.String("path", path),
		ports.Int64("amount", rec.AmountCents))

	return rec, nil
}

// FastCheckoutState returns the stored identifier pair for a returning
// customer, or ok=false when none exists or fast checkout is disabled.
func (o *Orchestrator) FastCheckoutState(ctx context.Context, userID string, method domain.PaymentMethod) (clientID, paymentID string, ok bool, err error) {
	if !o.opts.FastCheckoutEnabled || userID == "" {
		return "", "", false, nil
	}

	paymentID, ok, err = o.store.LookupPaymentID(ctx, userID, method)
	if err != nil || !ok {
		return "", "", false, err
	}

	clientID, _, err = o.store.LookupClientID(ctx, userID)
	if err != nil {
		return "", "", false, err
	}
	return clientID, paymentID, true, nil
}

// fail marks the record failed and returns the step error. The record
// update is best effort; the caller needs the original error regardless.
func (o *Orchestrator) fail(ctx context.Context, rec *domain.TransactionRecord, path string, state State, stepErr error) error {
	rec.Status = domain.TransactionStatusFailed
	if updateErr := o.txRepo.UpdateOutcome(ctx, rec); updateErr != nil {
		o.logger.Error("transaction record update failed",
			ports.String("order_reference", rec.OrderReference),
			ports.Err(updateErr))
	}

	observability.CheckoutAttempts.WithLabelValues(path, "failed").Inc()
	o.logger.Error("checkout failed",
		ports.String("order_reference", rec.OrderReference),
		ports.String("state", string(state)),
		ports.Err(stepErr))

	return stepErr
}
