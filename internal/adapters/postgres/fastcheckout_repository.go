package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

// FastCheckoutRepository implements ports.FastCheckoutStore on PostgreSQL.
// The unique index on (user_id, method) makes the upsert atomic per pair:
// two racing checkouts for the same customer cannot produce duplicates or
// lost updates.
type FastCheckoutRepository struct {
	db DBTX
}

// NewFastCheckoutRepository creates a new fast-checkout repository
func NewFastCheckoutRepository(db DBTX) *FastCheckoutRepository {
	return &FastCheckoutRepository{db: db}
}

// LookupClientID returns the most recently updated client id for the user
// across any payment-method record. See ports.FastCheckoutStore.
func (r *FastCheckoutRepository) LookupClientID(ctx context.Context, userID string) (string, bool, error) {
	var clientID string
	err := r.db.QueryRow(ctx,
		`SELECT client_id FROM fastcheckout_records
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`, userID).Scan(&clientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup client id: %w", err)
	}
	return clientID, true, nil
}

// LookupPaymentID returns the payment id for the exact (userID, method) pair
func (r *FastCheckoutRepository) LookupPaymentID(ctx context.Context, userID string, method domain.PaymentMethod) (string, bool, error) {
	var paymentID string
	err := r.db.QueryRow(ctx,
		`SELECT payment_id FROM fastcheckout_records
		 WHERE user_id = $1 AND method = $2`, userID, string(method)).Scan(&paymentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup payment id: %w", err)
	}
	return paymentID, true, nil
}

// HasData reports whether a record exists for (userID, method)
func (r *FastCheckoutRepository) HasData(ctx context.Context, userID string, method domain.PaymentMethod) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM fastcheckout_records WHERE user_id = $1 AND method = $2
		 )`, userID, string(method)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check fastcheckout data: %w", err)
	}
	return exists, nil
}

// Save upserts the record for (userID, method). Empty userID is a no-op:
// anonymous checkouts must not persist fast-checkout data.
func (r *FastCheckoutRepository) Save(ctx context.Context, method domain.PaymentMethod, userID, clientID, paymentID string) error {
	if userID == "" {
		return nil
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO fastcheckout_records (user_id, method, client_id, payment_id, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, method)
		 DO UPDATE SET client_id = EXCLUDED.client_id,
		               payment_id = EXCLUDED.payment_id,
		               updated_at = now()`,
		userID, string(method), clientID, paymentID)
	if err != nil {
		return fmt.Errorf("save fastcheckout record: %w", err)
	}
	return nil
}
