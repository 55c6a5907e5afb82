// Package countdown drives the approval expiry progress.
package countdown

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the progress tick interval used when none is given.
const DefaultInterval = 100 * time.Millisecond

// Timer runs at most one countdown at a time. Starting a new countdown
// supersedes the running one.
type Timer struct {
	interval time.Duration

	mu     sync.Mutex
	run    uint64
	cancel context.CancelFunc
}

// New creates a Timer that reports progress every interval.
func New(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{interval: interval}
}

// Start begins a countdown of length d. onProgress receives values in
// [0, 1], starting at 0 and never decreasing; 1 is reported right before
// onTimeout. Callbacks run on the timer's goroutine without the timer's
// lock held, so they may call Stop or Start.
//
// Once ctx is done, Stop is called or another countdown is started, no new
// callback of this run begins. A callback that already passed its check
// may still run to completion after Stop returns; callers that need a hard
// cut-off must discard stale callbacks themselves.
func (t *Timer) Start(ctx context.Context, d time.Duration, onProgress func(float64), onTimeout func()) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	t.run++
	run := t.run
	t.cancel = cancel
	t.mu.Unlock()

	go t.loop(ctx, run, d, onProgress, onTimeout)
}

// Stop cancels the running countdown, if any. It does not wait for a
// callback that is already running.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.run++
}

func (t *Timer) current(ctx context.Context, run uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ctx.Err() == nil && t.run == run
}

func (t *Timer) loop(ctx context.Context, run uint64, d time.Duration, onProgress func(float64), onTimeout func()) {
	start := time.Now()
	deadline := start.Add(d)

	if !t.current(ctx, run) {
		return
	}
	onProgress(0)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	expiry := time.NewTimer(d)
	defer expiry.Stop()

	last := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !now.Before(deadline) {
				continue
			}
			p := float64(now.Sub(start)) / float64(d)
			if p <= last {
				continue
			}
			if !t.current(ctx, run) {
				return
			}
			last = p
			onProgress(p)
		case <-expiry.C:
			if !t.current(ctx, run) {
				return
			}
			onProgress(1)
			if !t.current(ctx, run) {
				return
			}
			onTimeout()
			return
		}
	}
}
