package resilience

import (
	"testing"
	"time"
)

func TestDefaultRestartPolicy(t *testing.T) {
	p := DefaultRestartPolicy()

	if p.MaxRestarts != 3 {
		t.Errorf("MaxRestarts = %d, want 3", p.MaxRestarts)
	}
	if p.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", p.InitialDelay)
	}
	if p.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", p.Multiplier)
	}
	if p.MaxDelay != 5*time.Second {
		t.Errorf("MaxDelay = %v, want 5s", p.MaxDelay)
	}
}

func TestRestartPolicy_ShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		max      int
		restarts int
		want     bool
	}{
		{"below limit", 3, 0, true},
		{"one below limit", 3, 2, true},
		{"at limit", 3, 3, false},
		{"above limit", 3, 5, false},
		{"zero max never retries", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := RestartPolicy{MaxRestarts: tt.max}
			if got := p.ShouldRetry(tt.restarts); got != tt.want {
				t.Errorf("ShouldRetry(%d) = %v, want %v", tt.restarts, got, tt.want)
			}
		})
	}
}

func TestRestartPolicy_BackoffSequence(t *testing.T) {
	p := RestartPolicy{
		MaxRestarts:  100,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		5 * time.Second,
		5 * time.Second,
		5 * time.Second,
	}

	delay := p.InitialDelay
	for i, w := range want {
		if delay != w {
			t.Errorf("attempt %d: delay = %v, want %v", i+1, delay, w)
		}
		delay = p.NextDelay(delay)
	}
}

func TestRestartPolicy_NextDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  RestartPolicy
		current time.Duration
		want    time.Duration
	}{
		{
			"no multiplier stays constant",
			RestartPolicy{InitialDelay: 50 * time.Millisecond},
			50 * time.Millisecond,
			50 * time.Millisecond,
		},
		{
			"no initial delay stays zero",
			RestartPolicy{Multiplier: 2.0},
			0,
			0,
		},
		{
			"uncapped growth",
			RestartPolicy{InitialDelay: time.Second, Multiplier: 10},
			time.Second,
			10 * time.Second,
		},
		{
			"capped at max delay",
			RestartPolicy{InitialDelay: time.Second, Multiplier: 3, MaxDelay: 2 * time.Second},
			time.Second,
			2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.NextDelay(tt.current); got != tt.want {
				t.Errorf("NextDelay(%v) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}
