package reactor

import (
	"context"
	"sync"

	"github.com/jonwraymond/rrt/broadcast"
)

// Subscription is one subscriber's claim on the reactor's event stream.
// Closing it is the only unsubscribe mechanism: there is deliberately no
// separate unsubscribe call, which rules out use-after-unsubscribe.
type Subscription[E any] struct {
	r    *Reactor[E]
	sub  *broadcast.Subscription[Event[E]]
	once sync.Once
}

// Recv returns the next event in send order.
//
// A subscriber that fell behind gets a *broadcast.LagError carrying the
// number of missed events before delivery resumes; lost events are never
// replayed. After the reactor is closed, Recv drains the remaining buffer
// and then returns broadcast.ErrClosed; the subscriber must Subscribe
// again. A canceled context returns ctx.Err().
func (s *Subscription[E]) Recv(ctx context.Context) (Event[E], error) {
	return s.sub.Recv(ctx)
}

// Lagged reports the number of events dropped for this subscriber that
// have not yet been surfaced through Recv.
func (s *Subscription[E]) Lagged() uint64 {
	return s.sub.Lagged()
}

// Close releases the subscription: the receiver is dropped and the worker
// is woken so it can re-evaluate whether anyone is still listening. Close
// is idempotent and safe to call concurrently with Recv.
func (s *Subscription[E]) Close() {
	s.once.Do(func() {
		s.sub.Close()
		s.r.releaseLimit()
		s.r.wake()
	})
}
