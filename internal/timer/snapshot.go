package timer

import "fmt"

// Snapshot is an immutable copy of a countdown, handed to renderers.
type Snapshot struct {
	CustomMinutes    int
	TotalSeconds     int
	RemainingSeconds int
	Running          bool
}

func (s Snapshot) Phase() Phase {
	switch {
	case s.RemainingSeconds == 0:
		return PhaseComplete
	case s.Running:
		return PhaseRunning
	case s.RemainingSeconds == s.TotalSeconds:
		return PhaseIdle
	default:
		return PhasePaused
	}
}

// Percent is the elapsed share of the configured duration, in [0, 100].
func (s Snapshot) Percent() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	pct := float64(s.TotalSeconds-s.RemainingSeconds) / float64(s.TotalSeconds) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (s Snapshot) Clock() string {
	return FormatClock(s.RemainingSeconds)
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
