package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinMinutes     = 1
	MaxMinutes     = 120
	DefaultMinutes = 25
)

var (
	ErrInvalidDuration    = errors.New("duration is not a whole number of minutes")
	ErrDurationOutOfRange = fmt.Errorf("duration must be between %d and %d minutes", MinMinutes, MaxMinutes)
)

// Phase is the derived position of a countdown in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// TickResult reports what a single tick did to the countdown.
type TickResult int

const (
	TickIgnored TickResult = iota
	TickDecremented
	TickCompleted
)

// ValidateMinutes rejects durations outside [MinMinutes, MaxMinutes]. Values are never clamped.
func ValidateMinutes(minutes int) error {
	if minutes < MinMinutes || minutes > MaxMinutes {
		return fmt.Errorf("%d: %w", minutes, ErrDurationOutOfRange)
	}
	return nil
}

// ParseMinutes parses user input from the duration field.
func ParseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %v", s, ErrInvalidDuration, err)
	}
	if err := ValidateMinutes(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// Countdown holds the remaining-seconds counter and the running flag.
// It has no notion of wall-clock time: callers deliver ticks.
// Countdown is not safe for concurrent use.
type Countdown struct {
	customMinutes int
	total         int
	remaining     int
	running       bool
}

func New(minutes int) (*Countdown, error) {
	if err := ValidateMinutes(minutes); err != nil {
		return nil, err
	}
	return &Countdown{
		customMinutes: minutes,
		total:         minutes * 60,
		remaining:     minutes * 60,
	}, nil
}

// Start marks the countdown running. It refuses when already running or complete.
func (c *Countdown) Start() bool {
	if c.running || c.remaining == 0 {
		return false
	}
	c.running = true
	return true
}

// Pause stops the countdown and reports whether it was running.
func (c *Countdown) Pause() bool {
	was := c.running
	c.running = false
	return was
}

// Toggle flips the running flag and returns the new value.
func (c *Countdown) Toggle() bool {
	if c.running {
		c.Pause()
		return false
	}
	return c.Start()
}

// Tick decrements the counter by one second. The tick that reaches zero stops
// the countdown and is the only one reported as TickCompleted.
func (c *Countdown) Tick() TickResult {
	if !c.running || c.remaining == 0 {
		return TickIgnored
	}
	c.remaining--
	if c.remaining == 0 {
		c.running = false
		return TickCompleted
	}
	return TickDecremented
}

func (c *Countdown) Reset() {
	c.running = false
	c.remaining = c.total
}

// SetDuration replaces the configured duration and restarts the countdown from
// the new total in the stopped state. Invalid input leaves everything unchanged.
func (c *Countdown) SetDuration(minutes int) error {
	if err := ValidateMinutes(minutes); err != nil {
		return err
	}
	c.customMinutes = minutes
	c.total = minutes * 60
	c.remaining = c.total
	c.running = false
	return nil
}

func (c *Countdown) Snapshot() Snapshot {
	return Snapshot{
		CustomMinutes:    c.customMinutes,
		TotalSeconds:     c.total,
		RemainingSeconds: c.remaining,
		Running:          c.running,
	}
}
