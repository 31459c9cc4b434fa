package domain

import (
	"context"
	"fmt"
	"time"
)

// RateLimitedError signals an upstream 429 with the backoff the source asked
// for. Distinct from ordinary fetch failures so the poll loop can sleep
// instead of skipping.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// ActivitySource fetches the most recent trades for an address, newest first.
type ActivitySource interface {
	FetchLatestTrades(ctx context.Context, address string, limit int) ([]Trade, error)
}
