package resilience

import "sync"

// SubscriberLimitConfig configures the subscriber limit.
type SubscriberLimitConfig struct {
	// MaxSubscribers is the maximum number of concurrent subscribers.
	// Default: 64
	MaxSubscribers int
}

// SubscriberLimit caps the number of concurrent subscribers admitted to a
// reactor. Admission is deliberately non-blocking: a subscriber that cannot
// be admitted immediately is rejected rather than queued, since queueing a
// subscribe call would hold the caller for an unbounded time.
type SubscriberLimit struct {
	config SubscriberLimitConfig

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewSubscriberLimit creates a new subscriber limit.
func NewSubscriberLimit(config SubscriberLimitConfig) *SubscriberLimit {
	// Apply defaults
	if config.MaxSubscribers <= 0 {
		config.MaxSubscribers = 64
	}

	return &SubscriberLimit{config: config}
}

// Acquire claims a subscriber slot. It returns ErrSubscriberLimit when the
// limit is at capacity.
func (l *SubscriberLimit) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active >= l.config.MaxSubscribers {
		l.rejected++
		return ErrSubscriberLimit
	}
	l.active++
	if l.active > l.maxActive {
		l.maxActive = l.active
	}
	return nil
}

// Release returns a subscriber slot. Releasing below zero is clamped.
func (l *SubscriberLimit) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active > 0 {
		l.active--
	}
}

// Metrics returns current subscriber limit statistics.
func (l *SubscriberLimit) Metrics() SubscriberLimitMetrics {
	l.mu.Lock()
	defer l.mu.Unlock()

	return SubscriberLimitMetrics{
		Active:         l.active,
		MaxActive:      l.maxActive,
		Available:      l.config.MaxSubscribers - l.active,
		MaxSubscribers: l.config.MaxSubscribers,
		Rejected:       l.rejected,
	}
}

// SubscriberLimitMetrics contains subscriber limit statistics.
type SubscriberLimitMetrics struct {
	Active         int
	MaxActive      int
	Available      int
	MaxSubscribers int
	Rejected       int64
}
