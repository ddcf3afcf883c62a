package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Subscription is one subscriber's handle on a Broadcaster. It owns a
// bounded buffer of undelivered values and an independent lag counter.
// Recv and Close may be called from any goroutine.
type Subscription[T any] struct {
	b      *Broadcaster[T]
	id     uint64
	ch     chan T
	done   chan struct{}
	once   sync.Once
	lagged atomic.Uint64
}

// Recv returns the next value in send order.
//
// If values were dropped for this subscriber since the previous call, Recv
// reports them first as a *LagError; the following call resumes with the
// oldest surviving value. After the subscription or its broadcaster is
// closed, Recv drains the remaining buffer and then returns ErrClosed.
// A canceled context returns ctx.Err().
func (s *Subscription[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	if n := s.lagged.Swap(0); n > 0 {
		return zero, &LagError{Missed: n}
	}

	// Buffered values are served even when done is already closed.
	select {
	case v := <-s.ch:
		return v, nil
	default:
	}

	select {
	case v := <-s.ch:
		return v, nil
	case <-s.done:
		select {
		case v := <-s.ch:
			return v, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Lagged reports the number of values dropped for this subscriber that
// have not yet been surfaced through Recv.
func (s *Subscription[T]) Lagged() uint64 {
	return s.lagged.Load()
}

// Close detaches the subscription from the broadcaster. Pending Recv calls
// return ErrClosed once the buffer is drained. Close is idempotent and
// safe to call concurrently with Recv.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.b.remove(s.id)
		close(s.done)
	})
}
