package broadcast

import (
	"sync"
)

// DefaultCapacity is the per-subscriber buffer capacity used when New is
// given a non-positive capacity.
const DefaultCapacity = 64

// Broadcaster fans values out to any number of subscriptions. It is safe
// for concurrent use, though values are delivered in a well-defined order
// only when a single goroutine sends.
type Broadcaster[T any] struct {
	mu       sync.Mutex
	subs     map[uint64]*Subscription[T]
	nextID   uint64
	capacity int
	closed   bool
	sent     uint64
}

// New creates a broadcaster whose subscriptions buffer up to capacity
// values each. A non-positive capacity selects DefaultCapacity.
func New[T any](capacity int) *Broadcaster[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Broadcaster[T]{
		subs:     make(map[uint64]*Subscription[T]),
		capacity: capacity,
	}
}

// Subscribe registers a new subscription. Subscribing to a closed
// broadcaster returns an already-closed subscription whose Recv reports
// ErrClosed.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription[T]{
		b:    b,
		id:   b.nextID,
		ch:   make(chan T, b.capacity),
		done: make(chan struct{}),
	}
	b.nextID++

	if b.closed {
		s.once.Do(func() { close(s.done) })
		return s
	}

	b.subs[s.id] = s
	return s
}

// Send delivers v to every live subscription and returns the number of
// subscriptions it was delivered or accounted to. A full subscription has
// its oldest buffered value dropped and its lag counter bumped. Send never
// blocks; sending on a closed broadcaster is a no-op returning 0.
func (b *Broadcaster[T]) Send(v T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}
	b.sent++

	for _, s := range b.subs {
		select {
		case s.ch <- v:
			continue
		default:
		}

		// Buffer full: evict the oldest value. The eviction can lose the
		// race with a concurrent Recv, in which case room just opened up.
		select {
		case <-s.ch:
			s.lagged.Add(1)
		default:
		}
		select {
		case s.ch <- v:
		default:
			// Only the sender adds while holding b.mu, so this branch is
			// unreachable; account the value as dropped all the same.
			s.lagged.Add(1)
		}
	}
	return len(b.subs)
}

// ReceiverCount reports the number of live subscriptions.
func (b *Broadcaster[T]) ReceiverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Sent reports the total number of values sent so far.
func (b *Broadcaster[T]) Sent() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent
}

// Close closes the broadcaster and every live subscription. Buffered
// values remain receivable; subsequent Sends are dropped. Close is
// idempotent.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, s := range b.subs {
		delete(b.subs, id)
		s.once.Do(func() { close(s.done) })
	}
}

// remove detaches a subscription, typically on Subscription.Close.
func (b *Broadcaster[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}
