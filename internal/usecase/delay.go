package usecase

import (
	"context"
	"math/rand"
	"time"
)

// waitJitter sleeps a uniformly random duration inside [minMs, maxMs]
// milliseconds, returning early on context cancellation. The pause masks
// request-rate patterns between items and carries no retry semantics.
func waitJitter(ctx context.Context, minMs, maxMs int) {
	d := time.Duration(minMs) * time.Millisecond
	if maxMs > minMs {
		d = time.Duration(minMs+rand.Intn(maxMs-minMs+1)) * time.Millisecond
	}
	if d <= 0 {
		return
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
