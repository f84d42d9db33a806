package interview

import (
	"context"
	"time"
)

// Countdown is a cancellable answer timer. Every tick removes one second
// from the remaining budget; at zero it fires once.
type Countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown runs until budget is used up or Stop is called. onTick
// may be nil. onExpire runs on the countdown goroutine.
func StartCountdown(ctx context.Context, budget, tick time.Duration, onTick func(remaining time.Duration), onExpire func()) *Countdown {
	ctx, cancel := context.WithCancel(ctx)
	cd := &Countdown{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(cd.done)
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		remaining := budget
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining -= time.Second
				if remaining <= 0 {
					if ctx.Err() == nil {
						onExpire()
					}
					return
				}
				if onTick != nil {
					onTick(remaining)
				}
			}
		}
	}()
	return cd
}

// Stop cancels the countdown. It does not wait and is safe to call from
// onExpire or more than once.
func (c *Countdown) Stop() {
	if c != nil {
		c.cancel()
	}
}

// Done is closed once the countdown goroutine has exited.
func (c *Countdown) Done() <-chan struct{} { return c.done }
