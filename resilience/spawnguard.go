package resilience

import (
	"sync"
	"time"
)

// State represents the spawn guard state.
type State int

const (
	// StateClosed means spawning is operating normally.
	StateClosed State = iota
	// StateOpen means the guard is blocking all spawn attempts.
	StateOpen
	// StateHalfOpen means the guard is allowing a probe spawn to test
	// whether worker creation recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// SpawnGuardConfig configures the spawn guard.
type SpawnGuardConfig struct {
	// MaxFailures is the number of consecutive worker-creation failures
	// before opening the guard.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long to block spawns before allowing a probe.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// OnStateChange is called when the guard state changes.
	OnStateChange func(from, to State)
}

// SpawnGuard protects a reactor against spawn storms: when worker creation
// keeps failing, subscribing would otherwise hammer the failing resource on
// every call. After MaxFailures consecutive failures the guard opens and
// Allow fails fast until ResetTimeout has passed, at which point exactly
// one probe spawn is let through.
type SpawnGuard struct {
	config SpawnGuardConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// NewSpawnGuard creates a new spawn guard.
func NewSpawnGuard(config SpawnGuardConfig) *SpawnGuard {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}

	return &SpawnGuard{
		config: config,
		state:  StateClosed,
	}
}

// Allow reports whether a spawn attempt may proceed. It returns
// ErrSpawnGuardOpen while the guard is open or while a probe spawn is
// already in flight.
func (g *SpawnGuard) Allow() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.currentStateLocked() {
	case StateOpen:
		return ErrSpawnGuardOpen
	case StateHalfOpen:
		if g.probing {
			return ErrSpawnGuardOpen
		}
		g.probing = true
	}
	return nil
}

// RecordSuccess records a successful worker creation, closing the guard.
func (g *SpawnGuard) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state
	g.state = StateClosed
	g.failures = 0
	g.probing = false
	g.notifyLocked(old, g.state)
}

// RecordFailure records a failed worker creation. Consecutive failures at
// or above MaxFailures open the guard; a failed probe reopens it.
func (g *SpawnGuard) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state
	g.failures++
	g.lastFailure = time.Now()
	g.probing = false

	switch g.state {
	case StateClosed:
		if g.failures >= g.config.MaxFailures {
			g.state = StateOpen
		}
	case StateHalfOpen:
		g.state = StateOpen
	}
	g.notifyLocked(old, g.state)
}

// State returns the current guard state.
func (g *SpawnGuard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentStateLocked()
}

// Reset returns the guard to the closed state.
func (g *SpawnGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state
	g.state = StateClosed
	g.failures = 0
	g.probing = false
	g.notifyLocked(old, StateClosed)
}

func (g *SpawnGuard) currentStateLocked() State {
	if g.state == StateOpen && time.Since(g.lastFailure) >= g.config.ResetTimeout {
		g.state = StateHalfOpen
		g.probing = false
		g.notifyLocked(StateOpen, StateHalfOpen)
	}
	return g.state
}

func (g *SpawnGuard) notifyLocked(from, to State) {
	if from != to && g.config.OnStateChange != nil {
		g.config.OnStateChange(from, to)
	}
}

// Metrics returns current spawn guard statistics.
func (g *SpawnGuard) Metrics() SpawnGuardMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()

	return SpawnGuardMetrics{
		State:       g.currentStateLocked(),
		Failures:    g.failures,
		LastFailure: g.lastFailure,
	}
}

// SpawnGuardMetrics contains spawn guard statistics.
type SpawnGuardMetrics struct {
	State       State
	Failures    int
	LastFailure time.Time
}
