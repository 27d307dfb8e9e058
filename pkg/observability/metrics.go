package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GatewayRequests counts processor API calls by operation and outcome
	// (ok, declined, timeout, error).
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paymill_gateway_requests_total",
		Help: "Total number of payment processor API calls",
	}, []string{"operation", "outcome"})

	// CheckoutAttempts counts orchestrated checkout attempts by path
	// (fast, standard) and result (captured, failed).
	CheckoutAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paymill_checkout_attempts_total",
		Help: "Total number of checkout orchestration attempts",
	}, []string{"path", "result"})

	// FastCheckoutSaveFailures counts best-effort fast-checkout persistence
	// failures. These never abort a checkout; the counter is the only place
	// they become visible beyond logs.
	FastCheckoutSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paymill_fastcheckout_save_failures_total",
		Help: "Total number of failed fast-checkout record saves",
	})

	// InvoiceTriggers counts post-authorization invoice reactions by
	// outcome (captured, skipped, error).
	InvoiceTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paymill_invoice_triggers_total",
		Help: "Total number of post-authorization invoice trigger runs",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the Prometheus metrics
// endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
