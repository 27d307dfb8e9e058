package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/pkg/observability"
)

// Trigger reacts to successful order placement by invoicing orders that
// were charged through the pre-auth-then-capture flow. Orders paid by
// other means, and orders without a PreAuthenticated record, are left
// for the platform's normal invoicing.
type Trigger struct {
	txRepo ports.TransactionRepository
	orders ports.OrderStateMutator
	logger ports.Logger
}

// NewTrigger creates an invoice trigger
func NewTrigger(txRepo ports.TransactionRepository, orders ports.OrderStateMutator, logger ports.Logger) *Trigger {
	return &Trigger{
		txRepo: txRepo,
		orders: orders,
		logger: logger,
	}
}

// OnOrderSuccess runs after an order is placed. methodCode is the
// platform's payment method code for the order; codes this integration
// does not own are ignored silently. The trigger is deliberately
// forgiving: a missing transaction record or an un-flagged one means
// some other flow handled the charge, so the order passes through
// untouched rather than erroring a successful checkout.
func (t *Trigger) OnOrderSuccess(ctx context.Context, orderReference, methodCode string) error {
	method, err := domain.ParsePaymentMethod(methodCode)
	if err != nil {
		return nil
	}

	rec, err := t.txRepo.GetByOrderReference(ctx, orderReference)
	if err != nil {
		if errors.Is(err, domain.ErrTxnNotFound) {
			observability.InvoiceTriggers.WithLabelValues("skipped").Inc()
			return nil
		}
		observability.InvoiceTriggers.WithLabelValues("error").Inc()
		return fmt.Errorf("load transaction record: %w", err)
	}

	if !rec.PreAuthenticated {
		observability.InvoiceTriggers.WithLabelValues("skipped").Inc()
		return nil
	}

	ok, err := t.orders.CanInvoice(ctx, orderReference)
	if err != nil {
		observability.InvoiceTriggers.WithLabelValues("error").Inc()
		return fmt.Errorf("check invoiceable: %w", err)
	}
	if !ok {
		observability.InvoiceTriggers.WithLabelValues("skipped").Inc()
		t.logger.Info("order not invoiceable, skipping",
			ports.String("order_reference", orderReference),
			ports.String("method", string(method)))
		return nil
	}

	invoiceID, err := t.orders.CreateInvoice(ctx, orderReference)
	if err != nil {
		observability.InvoiceTriggers.WithLabelValues("error").Inc()
		return fmt.Errorf("create invoice: %w", err)
	}

	if err := t.orders.CaptureInvoice(ctx, invoiceID); err != nil {
		observability.InvoiceTriggers.WithLabelValues("error").Inc()
		return fmt.Errorf("capture invoice %s: %w", invoiceID, err)
	}

	observability.InvoiceTriggers.WithLabelValues("captured").Inc()
	t.logger.Info("invoice captured",
		ports.String("order_reference", orderReference),
		ports.String("invoice_id", invoiceID))
	return nil
}
