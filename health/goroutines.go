package health

import (
	"context"
	"fmt"
	"runtime"
)

// GoroutineCheckerConfig configures the goroutine health checker.
type GoroutineCheckerConfig struct {
	// WarningThreshold is the goroutine count that triggers degraded status.
	// Default: 1000
	WarningThreshold int

	// CriticalThreshold is the goroutine count that triggers unhealthy status.
	// Default: 5000
	CriticalThreshold int
}

// GoroutineChecker checks goroutine and OS thread counts. A reactor owns
// exactly one goroutine per live worker, so sustained growth here usually
// means drivers are leaking rather than exiting.
type GoroutineChecker struct {
	config GoroutineCheckerConfig
}

// NewGoroutineChecker creates a new goroutine health checker.
func NewGoroutineChecker(config GoroutineCheckerConfig) *GoroutineChecker {
	if config.WarningThreshold <= 0 {
		config.WarningThreshold = 1000
	}
	if config.CriticalThreshold <= 0 {
		config.CriticalThreshold = 5000
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold * 2
	}

	return &GoroutineChecker{config: config}
}

// Name returns the name of this checker.
func (g *GoroutineChecker) Name() string {
	return "goroutines"
}

// Check performs the goroutine health check.
func (g *GoroutineChecker) Check(ctx context.Context) Result {
	// Check context first
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	count := runtime.NumGoroutine()
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	details := map[string]any{
		"goroutines":         count,
		"warning_threshold":  g.config.WarningThreshold,
		"critical_threshold": g.config.CriticalThreshold,
		"gomaxprocs":         runtime.GOMAXPROCS(0),
		"num_cpu":            runtime.NumCPU(),
		"stack_in_use":       stats.StackInuse,
		"stack_sys":          stats.StackSys,
	}

	if count >= g.config.CriticalThreshold {
		return Unhealthy(
			fmt.Sprintf("goroutine count critical: %d", count),
			ErrCheckFailed,
		).WithDetails(details)
	}

	if count >= g.config.WarningThreshold {
		return Degraded(
			fmt.Sprintf("goroutine count high: %d", count),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("goroutine count normal: %d", count),
	).WithDetails(details)
}
