// Package broadcast provides a single-producer, multi-subscriber fan-out
// channel with bounded per-subscriber buffers and explicit lag detection.
//
// Go channels deliver each value to exactly one receiver. A Broadcaster
// instead delivers every sent value to every live subscription, each of
// which owns an independent bounded buffer. When a subscriber falls behind,
// the oldest buffered value is dropped and the loss is surfaced to that
// subscriber as a *LagError the next time it receives, so events are never
// silently missing.
//
// # Guarantees
//
//   - Every value sent while a subscription is live is either delivered to
//     it in send order, or accounted for in a LagError.
//   - Send never blocks and never panics, including concurrently with
//     Subscription.Close and Broadcaster.Close.
//   - A subscription that has been closed, or whose broadcaster has been
//     closed, receives ErrClosed after draining its buffer.
//
// # Usage
//
//	b := broadcast.New[string](64)
//	sub := b.Subscribe()
//	defer sub.Close()
//
//	b.Send("hello")
//
//	v, err := sub.Recv(ctx)
//	var lag *broadcast.LagError
//	if errors.As(err, &lag) {
//	    // lag.Missed values were dropped for this subscriber only
//	}
//
// The zero subscriber case is valid: Send with no subscriptions is a no-op.
package broadcast
