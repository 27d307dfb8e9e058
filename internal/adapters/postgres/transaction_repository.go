package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

// TransactionRepository implements ports.TransactionRepository on PostgreSQL
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, rec *domain.TransactionRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transaction_records (
		   id, order_reference, transaction_id, preauthorization_id,
		   amount_cents, preauth_amount_cents, currency, description,
		   method, status, response_code, success, pre_authenticated,
		   created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())`,
		rec.ID, rec.OrderReference, rec.TransactionID, rec.PreauthorizationID,
		rec.AmountCents, rec.PreAuthAmountCents, rec.Currency, rec.Description,
		string(rec.PaymentMethod), string(rec.Status), rec.ResponseCode,
		rec.Success, rec.PreAuthenticated)
	if err != nil {
		return fmt.Errorf("create transaction record: %w", err)
	}
	return nil
}

// UpdateOutcome records the terminal state of a checkout attempt
func (r *TransactionRepository) UpdateOutcome(ctx context.Context, rec *domain.TransactionRecord) error {
	_, err := r.db.Exec(ctx,
		`UPDATE transaction_records
		 SET transaction_id = $2,
		     preauthorization_id = $3,
		     preauth_amount_cents = $4,
		     status = $5,
		     response_code = $6,
		     success = $7,
		     pre_authenticated = $8,
		     updated_at = now()
		 WHERE id = $1`,
		rec.ID, rec.TransactionID, rec.PreauthorizationID, rec.PreAuthAmountCents,
		string(rec.Status), rec.ResponseCode, rec.Success, rec.PreAuthenticated)
	if err != nil {
		return fmt.Errorf("update transaction record: %w", err)
	}
	return nil
}

// GetByOrderReference returns the latest record for an order reference
func (r *TransactionRepository) GetByOrderReference(ctx context.Context, orderReference string) (*domain.TransactionRecord, error) {
	rec := &domain.TransactionRecord{}
	var method, status string
	err := r.db.QueryRow(ctx,
		`SELECT id, order_reference, transaction_id, preauthorization_id,
		        amount_cents, preauth_amount_cents, currency, description,
		        method, status, response_code, success, pre_authenticated,
		        created_at, updated_at
		 FROM transaction_records
		 WHERE order_reference = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, orderReference).Scan(
		&rec.ID, &rec.OrderReference, &rec.TransactionID, &rec.PreauthorizationID,
		&rec.AmountCents, &rec.PreAuthAmountCents, &rec.Currency, &rec.Description,
		&method, &status, &rec.ResponseCode, &rec.Success, &rec.PreAuthenticated,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTxnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction by order reference: %w", err)
	}
	rec.PaymentMethod = domain.PaymentMethod(method)
	rec.Status = domain.TransactionStatus(status)
	return rec, nil
}
