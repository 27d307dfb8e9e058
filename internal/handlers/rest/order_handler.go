package rest

import (
	"encoding/json"
	"net/http"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
	"github.com/commercekit/paymill-bridge/internal/services/invoice"
)

// OrderSuccessRequest is posted by the shop platform after an order is
// placed successfully. MethodCode is the platform's payment method code;
// codes this integration does not own are acknowledged without action.
type OrderSuccessRequest struct {
	OrderReference string `json:"order_reference"`
	MethodCode     string `json:"method_code"`
}

// OrderHandler exposes the post-authorization invoice trigger over HTTP.
type OrderHandler struct {
	trigger *invoice.Trigger
	logger  ports.Logger
}

// NewOrderHandler creates an order handler
func NewOrderHandler(trigger *invoice.Trigger, logger ports.Logger) *OrderHandler {
	return &OrderHandler{trigger: trigger, logger: logger}
}

// OrderSuccess handles POST /api/v1/orders/success.
func (h *OrderHandler) OrderSuccess(w http.ResponseWriter, r *http.Request) {
	var payload OrderSuccessRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.OrderReference == "" {
		JSONError(w, http.StatusBadRequest, string(domain.ErrorCodeValidationFailed), "order_reference is required", nil)
		return
	}

	if err := h.trigger.OnOrderSuccess(r.Context(), payload.OrderReference, payload.MethodCode); err != nil {
		h.logger.Error("invoice trigger failed",
			ports.String("order_reference", payload.OrderReference),
			ports.Err(err))
		writeDomainError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"status": "ok"}})
}
