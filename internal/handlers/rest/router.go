package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the API routes.
func NewRouter(checkoutH *CheckoutHandler, orderH *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", checkoutH.Checkout)
		r.Get("/fastcheckout/{user}/{method}", checkoutH.FastCheckoutState)
		r.Post("/orders/success", orderH.OrderSuccess)
	})

	return r
}
