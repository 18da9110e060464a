package geocoding

import (
	"context"
	"sync"
	"time"
)

// callSpacer enforces a minimum interval between successive calls to a
// single upstream service. Each provider instance owns its own spacer, so
// the providers' rate-limit windows are independent of one another.
//
// Slots are reserved under the mutex before waiting: N concurrent callers
// serialize into N spaced slots instead of racing past each other.
type callSpacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newCallSpacer(interval time.Duration) *callSpacer {
	return &callSpacer{
		interval: interval,
		now:      time.Now,
	}
}

// wait blocks until the caller's reserved slot arrives. The wait is
// abortable: a cancelled context returns promptly with ctx.Err(). The
// reserved slot is not released on cancellation, which keeps the spacing
// invariant conservative.
func (s *callSpacer) wait(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	s.mu.Lock()
	now := s.now()
	slot := s.last.Add(s.interval)
	if s.last.IsZero() || slot.Before(now) {
		slot = now
	}
	s.last = slot
	s.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
