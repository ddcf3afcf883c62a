package broadcast

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Recv when the subscription, or the broadcaster
// behind it, has been closed and the subscription's buffer is drained.
var ErrClosed = errors.New("broadcast: closed")

// LagError reports that a subscriber fell behind and values were dropped
// for it. It is returned by Recv exactly once per lag episode; receiving
// resumes with the oldest value still buffered.
type LagError struct {
	// Missed is the number of values dropped since the last report.
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("broadcast: subscriber lagged, %d values dropped", e.Missed)
}
