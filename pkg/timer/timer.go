package timer

import (
	"time"

	"go.uber.org/zap"
)

// ---------------------------------------------------------
// Mode 1: Function Level (The "Defer" pattern)
// ---------------------------------------------------------

// Track returns a function that, when executed, logs the duration at debug level.
// Usage: defer timer.Track(logger, "list-users")()
func Track(logger *zap.Logger, name string) func() {
	start := time.Now()
	return func() {
		logger.Debug("operation finished", zap.String("op", name), zap.Duration("took", time.Since(start)))
	}
}

// ---------------------------------------------------------
// Mode 2: Block Level (The "Stopwatch" pattern)
// ---------------------------------------------------------

// Stopwatch is useful for measuring multiple steps within one operation.
type Stopwatch struct {
	logger *zap.Logger
	start  time.Time
	last   time.Time
}

// NewStopwatch starts the clock.
func NewStopwatch(logger *zap.Logger) *Stopwatch {
	now := time.Now()
	return &Stopwatch{logger: logger, start: now, last: now}
}

// Lap logs the time taken since the last Lap call.
func (s *Stopwatch) Lap(stepName string) time.Duration {
	now := time.Now()
	elapsed := now.Sub(s.last)
	s.last = now
	s.logger.Debug("step finished",
		zap.String("step", stepName),
		zap.Duration("took", elapsed),
		zap.Duration("total", now.Sub(s.start)))
	return elapsed
}
