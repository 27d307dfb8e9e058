package ports

import "context"

// OrderStateMutator is the shop platform's order surface the invoice
// trigger drives. Creating and capturing invoices belongs to the
// platform; the bridge only decides when to do it.
type OrderStateMutator interface {
	// CanInvoice reports whether the order is still in an invoiceable
	// state (not cancelled, not already invoiced).
	CanInvoice(ctx context.Context, orderID string) (bool, error)

	// CreateInvoice creates an invoice for the order and returns its id.
	CreateInvoice(ctx context.Context, orderID string) (invoiceID string, err error)

	// CaptureInvoice captures payment against a created invoice.
	CaptureInvoice(ctx context.Context, invoiceID string) error
}
