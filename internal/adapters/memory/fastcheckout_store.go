// Package memory provides in-process adapter implementations for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

type recordKey struct {
	userID string
	method domain.PaymentMethod
}

// FastCheckoutStore is an in-memory ports.FastCheckoutStore. The mutex
// gives the same per-(user, method) upsert atomicity the Postgres unique
// index provides.
type FastCheckoutStore struct {
	mu      sync.Mutex
	records map[recordKey]*domain.FastCheckoutRecord
}

// NewFastCheckoutStore creates an empty in-memory store
func NewFastCheckoutStore() *FastCheckoutStore {
	return &FastCheckoutStore{
		records: make(map[recordKey]*domain.FastCheckoutRecord),
	}
}

// LookupClientID returns the most recently updated client id for the user
// across any payment-method record.
func (s *FastCheckoutStore) LookupClientID(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []*domain.FastCheckoutRecord
	for key, rec := range s.records {
		if key.userID == userID {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})
	return matches[0].ClientID, true, nil
}

// LookupPaymentID returns the payment id for the exact (userID, method) pair
func (s *FastCheckoutStore) LookupPaymentID(_ context.Context, userID string, method domain.PaymentMethod) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordKey{userID, method}]
	if !ok {
		return "", false, nil
	}
	return rec.PaymentID, true, nil
}

// HasData reports whether a record exists for (userID, method)
func (s *FastCheckoutStore) HasData(_ context.Context, userID string, method domain.PaymentMethod) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[recordKey{userID, method}]
	return ok, nil
}

// Save upserts the record for (userID, method). Empty userID is a no-op.
func (s *FastCheckoutStore) Save(_ context.Context, method domain.PaymentMethod, userID, clientID, paymentID string) error {
	if userID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[recordKey{userID, method}] = &domain.FastCheckoutRecord{
		UserID:    userID,
		Method:    method,
		ClientID:  clientID,
		PaymentID: paymentID,
		UpdatedAt: time.Now(),
	}
	return nil
}

// Len returns the number of stored records
func (s *FastCheckoutStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
