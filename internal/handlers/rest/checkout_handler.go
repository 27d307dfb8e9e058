package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/internal/services/checkout"
	"github.com/commercekit/paymill-bridge/pkg/resilience"
)

// CheckoutRequest is the JSON body of a checkout call. GrandTotal is the
// order total in major units as a decimal string ("49.99"); the service
// scales it to minor units. Either Token or StoredPaymentID must be set.
type CheckoutRequest struct {
	OrderReference  string `json:"order_reference" validate:"required"`
	Method          string `json:"method" validate:"required"`
	GrandTotal      string `json:"grand_total" validate:"required"`
	Currency        string `json:"currency" validate:"required,len=3"`
	CustomerEmail   string `json:"customer_email" validate:"required,email"`
	CustomerName    string `json:"customer_name"`
	Token           string `json:"token"`
	StoredPaymentID string `json:"stored_payment_id"`
	UserID          string `json:"user_id"`
	SessionID       string `json:"session_id"`
}

func (r *CheckoutRequest) grandTotal() decimal.Decimal {
	d, _ := decimal.NewFromString(r.GrandTotal)
	return d
}

// requestOrderSource lets the request body stand in as the order view the
// charge context is derived from.
type requestOrderSource struct{ req *CheckoutRequest }

func (s requestOrderSource) GrandTotal() decimal.Decimal { return s.req.grandTotal() }
func (s requestOrderSource) ReferenceID() string         { return s.req.OrderReference }
func (s requestOrderSource) CustomerEmail() string       { return s.req.CustomerEmail }
func (s requestOrderSource) CustomerName() string        { return s.req.CustomerName }

// CheckoutResponse is the JSON body of a successful checkout.
type CheckoutResponse struct {
	TransactionID      string `json:"transaction_id"`
	PreauthorizationID string `json:"preauthorization_id"`
	OrderReference     string `json:"order_reference"`
	AmountCents        int64  `json:"amount_cents"`
	Currency           string `json:"currency"`
	Status             string `json:"status"`
}

// FastCheckoutResponse reports whether stored fast-checkout identifiers
// exist for a user and method. Identifiers themselves are not exposed.
type FastCheckoutResponse struct {
	UserID  string `json:"user_id"`
	Method  string `json:"method"`
	HasData bool   `json:"has_data"`
}

// CheckoutHandler exposes the checkout orchestration over HTTP.
type CheckoutHandler struct {
	svc      *checkout.Orchestrator
	validate *validator.Validate
	timeouts *resilience.TimeoutConfig
	logger   ports.Logger
}

// NewCheckoutHandler creates a checkout handler
func NewCheckoutHandler(svc *checkout.Orchestrator, timeouts *resilience.TimeoutConfig, logger ports.Logger) *CheckoutHandler {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	return &CheckoutHandler{
		svc:      svc,
		validate: validator.New(),
		timeouts: timeouts,
		logger:   logger,
	}
}

// Checkout handles POST /api/v1/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var payload CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(&payload); err != nil {
		JSONError(w, http.StatusBadRequest, string(domain.ErrorCodeValidationFailed), err.Error(), nil)
		return
	}

	if _, err := decimal.NewFromString(payload.GrandTotal); err != nil {
		JSONError(w, http.StatusBadRequest, string(domain.ErrorCodeValidationFailed), "grand_total is not a valid decimal", nil)
		return
	}

	method, err := domain.ParsePaymentMethod(payload.Method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	chargeCtx, err := domain.NewChargeContext(requestOrderSource{req: &payload}, payload.Currency)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx, cancel := h.timeouts.HandlerContext(r.Context())
	defer cancel()

	rec, err := h.svc.ProcessCheckout(ctx, checkout.Request{
		Context:         chargeCtx,
		Method:          method,
		Token:           payload.Token,
		StoredPaymentID: payload.StoredPaymentID,
		UserID:          payload.UserID,
		SessionID:       payload.SessionID,
	})
	if err != nil {
		h.logger.Error("checkout request failed",
			ports.String("order_reference", payload.OrderReference),
			ports.Err(err))
		writeDomainError(w, err)
		return
	}

	JSON(w, http.StatusCreated, map[string]any{"data": CheckoutResponse{
		TransactionID:      rec.TransactionID,
		PreauthorizationID: rec.PreauthorizationID,
		OrderReference:     rec.OrderReference,
		AmountCents:        rec.AmountCents,
		Currency:           rec.Currency,
		Status:             string(rec.Status),
	}})
}

// FastCheckoutState handles GET /api/v1/fastcheckout/{user}/{method}.
func (h *CheckoutHandler) FastCheckoutState(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user")
	method, err := domain.ParsePaymentMethod(chi.URLParam(r, "method"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, _, ok, err := h.svc.FastCheckoutState(r.Context(), userID, method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{"data": FastCheckoutResponse{
		UserID:  userID,
		Method:  string(method),
		HasData: ok,
	}})
}
