// Package observe provides the reactive holders the orchestrator publishes
// through: a replay-latest Value and a fire-once multicast Events bus.
package observe

import (
	"context"
	"sync"
)

// Value holds the latest value of T. Subscribers receive the current value
// on subscription and every later value; a slow subscriber only sees the
// most recent one.
type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[chan T]struct{}
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[chan T]struct{})}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set replaces the current value and publishes it.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cur = x
	for ch := range v.subs {
		replace(ch, x)
	}
}

// Subscribe returns a channel that yields the current value immediately and
// every subsequent one. The channel is closed when ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.cur
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// replace puts x into a one-slot channel, evicting an unread stale value.
// Callers hold the owner's lock, so they are the only sender.
func replace[T any](ch chan T, x T) {
	select {
	case ch <- x:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- x
}

// Events is a multicast bus of one-shot events. Every event is delivered
// once to each current subscriber. An event emitted while nobody listens
// is kept (a replay buffer of one) and handed to the next subscriber only.
type Events[T any] struct {
	mu      sync.Mutex
	subs    map[chan T]struct{}
	pending []T
	buffer  int
}

// NewEvents creates a bus whose subscriber channels buffer up to buffer events.
func NewEvents[T any](buffer int) *Events[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Events[T]{subs: make(map[chan T]struct{}), buffer: buffer}
}

// Emit publishes x. Subscribers whose buffer is full miss the event.
func (e *Events[T]) Emit(x T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.subs) == 0 {
		e.pending = append(e.pending[:0], x)
		return
	}
	for ch := range e.subs {
		select {
		case ch <- x:
		default:
		}
	}
}

// Subscribe returns a channel of events emitted from now on, preceded by
// the retained event if one was emitted with no subscribers. The channel
// is closed when ctx is done.
func (e *Events[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, e.buffer)

	e.mu.Lock()
	for _, x := range e.pending {
		ch <- x
	}
	e.pending = e.pending[:0]
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, ch)
		close(ch)
		e.mu.Unlock()
	}()

	return ch
}
