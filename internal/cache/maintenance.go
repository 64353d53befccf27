package cache

import (
	"context"
	"time"
)

// Report calls fn with a Stats snapshot every interval until ctx is done.
//
// The cache owns no goroutines; callers run Report in their own. fn is
// invoked outside the cache lock, so it may call back into the cache.
func (c *Cache) Report(ctx context.Context, every time.Duration, fn func(Stats)) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(c.Stats())
		}
	}
}
