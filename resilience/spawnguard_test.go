package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestNewSpawnGuard_Defaults(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{})

	if g.config.MaxFailures != 5 {
		t.Errorf("MaxFailures = %d, want 5", g.config.MaxFailures)
	}
	if g.config.ResetTimeout != 30*time.Second {
		t.Errorf("ResetTimeout = %v, want 30s", g.config.ResetTimeout)
	}
	if g.State() != StateClosed {
		t.Errorf("State() = %v, want closed", g.State())
	}
}

func TestSpawnGuard_OpensAfterMaxFailures(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{MaxFailures: 2, ResetTimeout: time.Minute})

	if err := g.Allow(); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	g.RecordFailure()
	if g.State() != StateClosed {
		t.Errorf("State() after 1 failure = %v, want closed", g.State())
	}

	g.RecordFailure()
	if g.State() != StateOpen {
		t.Errorf("State() after 2 failures = %v, want open", g.State())
	}

	if err := g.Allow(); !errors.Is(err, ErrSpawnGuardOpen) {
		t.Errorf("Allow() error = %v, want ErrSpawnGuardOpen", err)
	}
}

func TestSpawnGuard_SuccessResetsFailures(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{MaxFailures: 2, ResetTimeout: time.Minute})

	g.RecordFailure()
	g.RecordSuccess()
	g.RecordFailure()

	if g.State() != StateClosed {
		t.Errorf("State() = %v, want closed (failures are consecutive)", g.State())
	}
}

func TestSpawnGuard_HalfOpenProbe(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})

	g.RecordFailure()
	if g.State() != StateOpen {
		t.Fatalf("State() = %v, want open", g.State())
	}

	time.Sleep(15 * time.Millisecond)
	if g.State() != StateHalfOpen {
		t.Fatalf("State() after reset timeout = %v, want half-open", g.State())
	}

	// Exactly one probe is admitted.
	if err := g.Allow(); err != nil {
		t.Fatalf("probe Allow() error = %v", err)
	}
	if err := g.Allow(); !errors.Is(err, ErrSpawnGuardOpen) {
		t.Errorf("second probe Allow() error = %v, want ErrSpawnGuardOpen", err)
	}

	// A successful probe closes the guard.
	g.RecordSuccess()
	if g.State() != StateClosed {
		t.Errorf("State() after probe success = %v, want closed", g.State())
	}
	if err := g.Allow(); err != nil {
		t.Errorf("Allow() after close error = %v", err)
	}
}

func TestSpawnGuard_FailedProbeReopens(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})

	g.RecordFailure()
	time.Sleep(15 * time.Millisecond)

	if err := g.Allow(); err != nil {
		t.Fatalf("probe Allow() error = %v", err)
	}
	g.RecordFailure()

	if g.State() != StateOpen {
		t.Errorf("State() after failed probe = %v, want open", g.State())
	}
}

func TestSpawnGuard_Reset(t *testing.T) {
	g := NewSpawnGuard(SpawnGuardConfig{MaxFailures: 1, ResetTimeout: time.Minute})

	g.RecordFailure()
	g.Reset()

	if g.State() != StateClosed {
		t.Errorf("State() after Reset = %v, want closed", g.State())
	}
	m := g.Metrics()
	if m.Failures != 0 {
		t.Errorf("Failures = %d, want 0", m.Failures)
	}
}

func TestSpawnGuard_OnStateChange(t *testing.T) {
	var transitions []string
	g := NewSpawnGuard(SpawnGuardConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	g.RecordFailure()
	g.Reset()

	want := []string{"closed->open", "open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transitions[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
