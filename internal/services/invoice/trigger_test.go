package invoice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/pkg/logging"
)

// MockTransactionRepository implements ports.TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

var _ ports.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) Create(ctx context.Context, rec *domain.TransactionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateOutcome(ctx context.Context, rec *domain.TransactionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByOrderReference(ctx context.Context, orderReference string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, orderReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

// MockOrderStateMutator implements ports.OrderStateMutator for testing
type MockOrderStateMutator struct {
	mock.Mock
}

var _ ports.OrderStateMutator = (*MockOrderStateMutator)(nil)

func (m *MockOrderStateMutator) CanInvoice(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStateMutator) CreateInvoice(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderStateMutator) CaptureInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func setupTrigger() (*Trigger, *MockTransactionRepository, *MockOrderStateMutator) {
	txRepo := new(MockTransactionRepository)
	orders := new(MockOrderStateMutator)
	return NewTrigger(txRepo, orders, logging.Nop()), txRepo, orders
}

func TestOnOrderSuccess_CapturesInvoice(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()
	ctx := context.Background()

	txRepo.On("GetByOrderReference", ctx, "100000123").Return(&domain.TransactionRecord{
		OrderReference:   "100000123",
		PreAuthenticated: true,
	}, nil)
	orders.On("CanInvoice", ctx, "100000123").Return(true, nil)
	orders.On("CreateInvoice", ctx, "100000123").Return("inv_1", nil)
	orders.On("CaptureInvoice", ctx, "inv_1").Return(nil)

	err := trigger.OnOrderSuccess(ctx, "100000123", "paymill_creditcard")
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOnOrderSuccess_ForeignMethodIgnored(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()

	err := trigger.OnOrderSuccess(context.Background(), "100000123", "checkmo")
	require.NoError(t, err)

	txRepo.AssertNotCalled(t, "GetByOrderReference", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestOnOrderSuccess_NoRecordIsNoOp(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()
	ctx := context.Background()

	txRepo.On("GetByOrderReference", ctx, "100000123").Return(nil, domain.ErrTxnNotFound)

	err := trigger.OnOrderSuccess(ctx, "100000123", "paymill_creditcard")
	require.NoError(t, err)
	orders.AssertNotCalled(t, "CanInvoice", mock.Anything, mock.Anything)
}

func TestOnOrderSuccess_NotPreAuthenticatedSkips(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()
	ctx := context.Background()

	txRepo.On("GetByOrderReference", ctx, "100000123").Return(&domain.TransactionRecord{
		OrderReference:   "100000123",
		PreAuthenticated: false,
	}, nil)

	err := trigger.OnOrderSuccess(ctx, "100000123", "paymill_directdebit")
	require.NoError(t, err)
	orders.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestOnOrderSuccess_NotInvoiceableSkips(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()
	ctx := context.Background()

	txRepo.On("GetByOrderReference", ctx, "100000123").Return(&domain.TransactionRecord{
		PreAuthenticated: true,
	}, nil)
	orders.On("CanInvoice", ctx, "100000123").Return(false, nil)

	err := trigger.OnOrderSuccess(ctx, "100000123", "paymill_creditcard")
	require.NoError(t, err)
	orders.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestOnOrderSuccess_CaptureFailureSurfaces(t *testing.T) {
	trigger, txRepo, orders := setupTrigger()
	ctx := context.Background()
	captureErr := errors.New("invoice already captured")

	txRepo.On("GetByOrderReference", ctx, "100000123").Return(&domain.TransactionRecord{
		PreAuthenticated: true,
	}, nil)
	orders.On("CanInvoice", ctx, "100000123").Return(true, nil)
	orders.On("CreateInvoice", ctx, "100000123").Return("inv_2", nil)
	orders.On("CaptureInvoice", ctx, "inv_2").Return(captureErr)

	err := trigger.OnOrderSuccess(ctx, "100000123", "paymill_creditcard")
	require.Error(t, err)
	assert.ErrorIs(t, err, captureErr)
}
