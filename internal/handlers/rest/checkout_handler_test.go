package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/paymill-bridge/internal/adapters/memory"
	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/internal/services/checkout"
	"github.com/commercekit/paymill-bridge/internal/services/invoice"
	pkgerrors "github.com/commercekit/paymill-bridge/pkg/errors"
	"github.com/commercekit/paymill-bridge/pkg/logging"
	"github.com/commercekit/paymill-bridge/pkg/resilience"
)

// stubGateway is a scriptable ports.ProcessorGateway
type stubGateway struct {
	preauthErr error
}

func (s *stubGateway) CreateClient(_ context.Context, _, _ string) (string, error) {
	return "client_1", nil
}

func (s *stubGateway) CreatePayment(_ context.Context, _, _ string) (string, error) {
	return "pay_1", nil
}

func (s *stubGateway) CreatePreauthorization(_ context.Context, req ports.PreauthorizationRequest) (*domain.Preauthorization, error) {
	if s.preauthErr != nil {
		return nil, s.preauthErr
	}
	return &domain.Preauthorization{ID: "preauth_1", AmountCents: req.AmountCents, Currency: req.Currency}, nil
}

func (s *stubGateway) CreateTransactionFromPreauth(_ context.Context, req ports.CaptureRequest) (*domain.GatewayTransaction, error) {
	return &domain.GatewayTransaction{
		ID:                 "tran_1",
		PreauthorizationID: req.PreauthorizationID,
		AmountCents:        req.AmountCents,
		ResponseCode:       20000,
		Status:             "closed",
	}, nil
}

// stubTxRepo keeps records in memory
type stubTxRepo struct {
	records map[string]*domain.TransactionRecord
}

func newStubTxRepo() *stubTxRepo {
	return &stubTxRepo{records: make(map[string]*domain.TransactionRecord)}
}

func (r *stubTxRepo) Create(_ context.Context, rec *domain.TransactionRecord) error {
	r.records[rec.OrderReference] = rec
	return nil
}

func (r *stubTxRepo) UpdateOutcome(_ context.Context, rec *domain.TransactionRecord) error {
	r.records[rec.OrderReference] = rec
	return nil
}

func (r *stubTxRepo) GetByOrderReference(_ context.Context, ref string) (*domain.TransactionRecord, error) {
	rec, ok := r.records[ref]
	if !ok {
		return nil, domain.ErrTxnNotFound
	}
	return rec, nil
}

// stubSessions never caches
type stubSessions struct{}

func (stubSessions) SetPreAuthAmount(context.Context, string, domain.PaymentMethod, int64) error {
	return nil
}

func (stubSessions) GetPreAuthAmount(context.Context, string, domain.PaymentMethod) (int64, bool, error) {
	return 0, false, nil
}

// stubOrders accepts every invoice operation
type stubOrders struct {
	captured []string
}

func (s *stubOrders) CanInvoice(context.Context, string) (bool, error) { return true, nil }

func (s *stubOrders) CreateInvoice(_ context.Context, orderID string) (string, error) {
	return "inv_" + orderID, nil
}

func (s *stubOrders) CaptureInvoice(_ context.Context, invoiceID string) error {
	s.captured = append(s.captured, invoiceID)
	return nil
}

func newTestRouter(gw *stubGateway, txRepo *stubTxRepo, orders *stubOrders) http.Handler {
	logger := logging.Nop()
	amounts := checkout.NewAmountCalculator(checkout.Tolerances{domain.MethodCreditCard: 100}, stubSessions{}, logger)
	orch := checkout.NewOrchestrator(gw, memory.NewFastCheckoutStore(), txRepo, amounts, checkout.Options{
		FastCheckoutEnabled: true,
		Source:              "bridge",
	}, logger)
	trigger := invoice.NewTrigger(txRepo, orders, logger)

	return NewRouter(
		NewCheckoutHandler(orch, resilience.TestTimeoutConfig(), logger),
		NewOrderHandler(trigger, logger),
	)
}

func checkoutBody() map[string]any {
	return map[string]any{
		"order_reference": "100000123",
		"method":          "paymill_creditcard",
		"grand_total":     "49.99",
		"currency":        "EUR",
		"customer_email":  "a@b.com",
		"token":           "tok_abc",
		"user_id":         "user_1",
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf)))
	return rr
}

func TestCheckout_Success(t *testing.T) {
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), &stubOrders{})

	rr := postJSON(t, router, "/api/v1/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data CheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "tran_1", resp.Data.TransactionID)
	assert.Equal(t, "100000123", resp.Data.OrderReference)
	assert.Equal(t, int64(4999), resp.Data.AmountCents)
	assert.Equal(t, "captured", resp.Data.Status)
}

func TestCheckout_ValidationFailure(t *testing.T) {
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), &stubOrders{})

	body := checkoutBody()
	delete(body, "customer_email")

	rr := postJSON(t, router, "/api/v1/checkout", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckout_BadDecimal(t *testing.T) {
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), &stubOrders{})

	body := checkoutBody()
	body["grand_total"] = "forty-nine"

	rr := postJSON(t, router, "/api/v1/checkout", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckout_UnsupportedMethod(t *testing.T) {
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), &stubOrders{})

	body := checkoutBody()
	body["method"] = "paypal"

	rr := postJSON(t, router, "/api/v1/checkout", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCheckout_GatewayDeclineHidesPayload(t *testing.T) {
	gw := &stubGateway{preauthErr: domain.WrapError(domain.ErrorCodeGatewayError, "invalid response code",
		&pkgerrors.GatewayError{
			Operation:    "preauthorizations",
			ResponseCode: 50102,
			Message:      "Card declined by authorization system",
			UserMessage:  "Your card was declined. Please use a different payment method.",
			Payload:      []byte(`{"internal":"diagnostics"}`),
			Category:     pkgerrors.CategoryDeclined,
		})}
	router := newTestRouter(gw, newStubTxRepo(), &stubOrders{})

	rr := postJSON(t, router, "/api/v1/checkout", checkoutBody())
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your card was declined")
	assert.NotContains(t, rr.Body.String(), "diagnostics")
}

func TestOrderSuccess_TriggersInvoice(t *testing.T) {
	txRepo := newStubTxRepo()
	orders := &stubOrders{}
	router := newTestRouter(&stubGateway{}, txRepo, orders)

	rr := postJSON(t, router, "/api/v1/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, router, "/api/v1/orders/success", map[string]any{
		"order_reference": "100000123",
		"method_code":     "paymill_creditcard",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"inv_100000123"}, orders.captured)
}

func TestOrderSuccess_ForeignMethodAccepted(t *testing.T) {
	orders := &stubOrders{}
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), orders)

	rr := postJSON(t, router, "/api/v1/orders/success", map[string]any{
		"order_reference": "100000999",
		"method_code":     "checkmo",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, orders.captured)
}

func TestFastCheckoutState_Endpoint(t *testing.T) {
	router := newTestRouter(&stubGateway{}, newStubTxRepo(), &stubOrders{})

	// A successful checkout stores the identifier pair for the user.
	rr := postJSON(t, router, "/api/v1/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, rr.Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/fastcheckout/user_1/creditcard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data FastCheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.HasData)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/fastcheckout/user_unknown/creditcard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.HasData)
}
