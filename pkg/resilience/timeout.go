package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines the timeout hierarchy for one checkout request.
//
// Each layer must complete before its parent times out:
//
//	HTTP handler (60s) > service layer (50s) > gateway call (30s)
//
// Gateway calls are never retried automatically: a timed-out step kills
// the whole attempt and the caller restarts from scratch with a fresh
// token.
type TimeoutConfig struct {
	HTTPHandler time.Duration // overall request timeout
	Service     time.Duration // orchestration timeout, must be < HTTPHandler
	GatewayCall time.Duration // single processor API call
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 60 * time.Second,
		Service:     50 * time.Second,
		GatewayCall: 30 * time.Second,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 5 * time.Second,
		Service:     4 * time.Second,
		GatewayCall: 2 * time.Second,
	}
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// ServiceContext creates a context with timeout for the orchestration layer
func (tc *TimeoutConfig) ServiceContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Service)
}

// GatewayContext creates a context with timeout for one processor call
func (tc *TimeoutConfig) GatewayContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.GatewayCall)
}
