package modelclient

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client so repeated calls inside a single dispatch (or
// across concurrent dispatches sharing one instance) cannot exceed a
// configured QPS, following the direct golang.org/x/time require already
// in the teacher's go.mod.
type RateLimited struct {
	next    Client
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token-bucket limiter allowing qps
// requests per second, with burst as the bucket size.
func NewRateLimited(next Client, qps float64, burst int) *RateLimited {
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(qps), burst)}
}

// Generate blocks until the limiter admits the call, then delegates to the
// wrapped Client.
func (r *RateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Generate(ctx, prompt)
}
