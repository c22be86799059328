// Package ratelimit throttles requests per client key, either in Redis so
// every instance shares one budget or in process memory.
package ratelimit

import "context"

type RateLimiter interface {
	// Allow records one request for key and reports whether it fits the budget.
	Allow(ctx context.Context, key string) (bool, error)
}
