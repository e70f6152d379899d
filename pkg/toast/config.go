package toast

import (
	"log/slog"
	"time"
)

const (
	// DefaultDuration is used when Notify is called without WithDuration.
	DefaultDuration = 4000 * time.Millisecond

	// DefaultExitDelay is the slide-out time between dismissal and removal.
	DefaultExitDelay = 300 * time.Millisecond
)

// Config controls timing and stacking for a Center.
type Config struct {
	// DefaultDuration applies when a call does not set one.
	// Zero or negative makes notifications persistent by default.
	DefaultDuration time.Duration

	// ExitDelay is how long a dismissed notification stays attached
	// before it is removed. Zero removes it immediately.
	ExitDelay time.Duration

	// MaxVisible caps the number of Visible notifications. When exceeded
	// the oldest one is evicted. Zero means unbounded.
	MaxVisible int
}

// DefaultConfig returns a Config with the standard timings.
func DefaultConfig() Config {
	return Config{
		DefaultDuration: DefaultDuration,
		ExitDelay:       DefaultExitDelay,
	}
}

// CenterOption configures a Center at construction.
type CenterOption func(*Center)

// WithClock replaces the system clock.
func WithClock(clock Clock) CenterOption {
	return func(c *Center) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) CenterOption {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver subscribes o before the center starts, so it sees every event.
func WithObserver(o Observer) CenterOption {
	return func(c *Center) {
		if o != nil {
			c.nextObserver++
			c.observers = append(c.observers, observerSlot{id: c.nextObserver, o: o})
		}
	}
}
