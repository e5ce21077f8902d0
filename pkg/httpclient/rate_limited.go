package httpclient

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedClient waits for a token before every request it forwards, so
// each retry attempt made on top of it is throttled too.
type RateLimitedClient struct {
	next    Client
	limiter *rate.Limiter
}

// NewRateLimited throttles next to perMinute requests per minute with bursts of
// up to perMinute. Zero or negative returns next unchanged.
func NewRateLimited(next Client, perMinute int) Client {
	if perMinute <= 0 {
		return next
	}
	return &RateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Get waits for the limiter and then delegates.
func (r *RateLimitedClient) Get(ctx context.Context, url string, headers, params map[string]string) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.Get(ctx, url, headers, params)
}
