package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// PacingProvider is a decorator that spaces requests to stay under a
// provider's request-rate limit.
type PacingProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithPacing wraps p so that at most rps requests per second reach it.
// A non-positive rps returns p unchanged.
func WithPacing(p Provider, rps float64) Provider {
	if rps <= 0 {
		return p
	}
	return &PacingProvider{inner: p, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (p *PacingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Generate(ctx, req)
}

func (p *PacingProvider) ModelID() string {
	return p.inner.ModelID()
}

// TimeoutProvider bounds each Generate call, retries included when it
// wraps the retry decorator.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so every call gets at most d. A non-positive d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (p *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.inner.Generate(ctx, req)
}

func (p *TimeoutProvider) ModelID() string {
	return p.inner.ModelID()
}
