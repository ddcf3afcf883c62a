package reactor

import "errors"

var (
	// ErrClosed indicates the reactor has been closed and cannot accept
	// new subscribers.
	ErrClosed = errors.New("reactor: closed")

	// ErrNilFactory indicates New was given a nil factory.
	ErrNilFactory = errors.New("reactor: factory is nil")
)
