package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/pkg/logging"
)

func TestPreAuthAmount_AppliesTolerance(t *testing.T) {
	sessions := new(MockSessionCache)
	calc := NewAmountCalculator(Tolerances{
		domain.MethodCreditCard:  100,
		domain.MethodDirectDebit: 0,
	}, sessions, logging.Nop())

	assert.Equal(t, int64(5099), calc.PreAuthAmount(context.Background(), "", 4999, domain.MethodCreditCard))
	assert.Equal(t, int64(4999), calc.PreAuthAmount(context.Background(), "", 4999, domain.MethodDirectDebit))
}

func TestPreAuthAmount_CachedValueWins(t *testing.T) {
	sessions := new(MockSessionCache)
	calc := NewAmountCalculator(Tolerances{domain.MethodCreditCard: 100}, sessions, logging.Nop())
	ctx := context.Background()

	sessions.On("GetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard).
		Return(int64(7777), true, nil)

	got := calc.PreAuthAmount(ctx, "sess_1", 4999, domain.MethodCreditCard)
	assert.Equal(t, int64(7777), got)
	sessions.AssertNotCalled(t, "SetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard, int64(5099))
}

func TestPreAuthAmount_CacheMissComputesAndStores(t *testing.T) {
	sessions := new(MockSessionCache)
	calc := NewAmountCalculator(Tolerances{domain.MethodCreditCard: 100}, sessions, logging.Nop())
	ctx := context.Background()

	sessions.On("GetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard).
		Return(int64(0), false, nil)
	sessions.On("SetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard, int64(5099)).
		Return(nil)

	got := calc.PreAuthAmount(ctx, "sess_1", 4999, domain.MethodCreditCard)
	assert.Equal(t, int64(5099), got)
	sessions.AssertExpectations(t)
}

func TestPreAuthAmount_CacheFailuresAreBestEffort(t *testing.T) {
	sessions := new(MockSessionCache)
	calc := NewAmountCalculator(Tolerances{domain.MethodCreditCard: 100}, sessions, logging.Nop())
	ctx := context.Background()

	sessions.On("GetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard).
		Return(int64(0), false, errors.New("connection refused"))
	sessions.On("SetPreAuthAmount", ctx, "sess_1", domain.MethodCreditCard, int64(5099)).
		Return(errors.New("connection refused"))

	got := calc.PreAuthAmount(ctx, "sess_1", 4999, domain.MethodCreditCard)
	assert.Equal(t, int64(5099), got)
}
