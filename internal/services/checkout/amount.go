package checkout

import (
	"context"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// Tolerances holds the per-method pre-authorization tolerance in minor
// units. The tolerance absorbs rounding and currency fluctuation between
// tokenization and capture.
type Tolerances map[domain.PaymentMethod]int64

// AmountCalculator derives the tolerance-adjusted pre-authorization
// amount for a checkout session. The figure is cached for the session so
// the capture step works from the same amount the pre-auth reserved.
type AmountCalculator struct {
	tolerances Tolerances
	sessions   ports.SessionCache
	logger     ports.Logger
}

// NewAmountCalculator creates an amount calculator
func NewAmountCalculator(tolerances Tolerances, sessions ports.SessionCache, logger ports.Logger) *AmountCalculator {
	return &AmountCalculator{
		tolerances: tolerances,
		sessions:   sessions,
		logger:     logger,
	}
}

// PreAuthAmount returns the pre-auth amount for this session: the base
// charge amount plus the configured per-method tolerance. Within one
// session the first computed figure wins; later calls return the cached
// value. The cache is a convenience, so cache failures are logged and
// the computed value is still returned.
func (a *AmountCalculator) PreAuthAmount(ctx context.Context, sessionID string, baseCents int64, method domain.PaymentMethod) int64 {
	if sessionID != "" {
		cached, ok, err := a.sessions.GetPreAuthAmount(ctx, sessionID, method)
		if err != nil {
			a.logger.Warn("preauth amount cache read failed", ports.Err(err))
		} else if ok {
			return cached
		}
	}

	amount := baseCents + a.tolerances[method]

	if sessionID != "" {
		if err := a.sessions.SetPreAuthAmount(ctx, sessionID, method, amount); err != nil {
			a.logger.Warn("preauth amount cache write failed", ports.Err(err))
		}
	}
	return amount
}
