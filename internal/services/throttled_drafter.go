package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// ThrottledDrafter limits how often the wrapped drafter is called
type ThrottledDrafter struct {
	next    pricing.DraftGenerator
	limiter *rate.Limiter
}

// NewThrottledDrafter wraps next with a token bucket. A non-positive
// requests-per-minute disables throttling.
func NewThrottledDrafter(next pricing.DraftGenerator, cfg config.ThrottleConfig) *ThrottledDrafter {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &ThrottledDrafter{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// GenerateDraft waits for a token, then delegates. Context cancellation while
// waiting is returned as the error.
func (t *ThrottledDrafter) GenerateDraft(ctx context.Context, req pricing.Request) (*pricing.Draft, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.GenerateDraft(ctx, req)
}
