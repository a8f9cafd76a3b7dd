package timer

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDuration is the length of the activation window.
const DefaultDuration = 10 * time.Second

// NeverArmed is the stored value meaning no Arm has happened yet.
// It is the Unix epoch in nanoseconds. Any realistic wall clock is decades past
// it, so now - NeverArmed always exceeds the window and the timer reads OFF.
const NeverArmed int64 = 0

// ClockLayout renders a start time as HH:MM:SS on a 24-hour clock.
const ClockLayout = "15:04:05"

// State is the derived answer to "is the window active".
type State bool

const (
	// StateOff means the window has expired or was never armed.
	StateOff State = false
	// StateOn means the window is active.
	StateOn State = true
)

// ErrUnknownState is returned by ParseState for anything but "ON" or "OFF".
var ErrUnknownState = errors.New("unknown timer state")

// String renders the state exactly as the status endpoint does.
func (s State) String() string {
	if s {
		return "ON"
	}

	return "OFF"
}

// ParseState accepts exactly "ON" or "OFF".
func ParseState(s string) (State, error) {
	switch s {
	case "ON":
		return StateOn, nil
	case "OFF":
		return StateOff, nil
	default:
		return StateOff, fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
}

// Activation is the result of arming the timer.
type Activation struct {
	// StartedAt is the wall-clock time of the arm.
	StartedAt time.Time
	// EndsAt is the last instant the window is still active.
	EndsAt time.Time
}

// StartClock renders StartedAt as HH:MM:SS in loc. A nil loc means host local time.
func (a Activation) StartClock(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return a.StartedAt.In(loc).Format(ClockLayout)
}

// EndTimestamp returns EndsAt as fractional seconds since the epoch.
func (a Activation) EndTimestamp() float64 {
	return float64(a.EndsAt.UnixNano()) / float64(time.Second)
}

// Snapshot is the window as observed at one instant.
type Snapshot struct {
	// LastArmedAt is the zero time if the timer was never armed.
	LastArmedAt time.Time
	// ObservedAt is the instant the snapshot was taken.
	ObservedAt time.Time
	// Duration is the window length.
	Duration time.Duration
	// State is derived from LastArmedAt and ObservedAt.
	State State
	// Remaining is zero when the state is OFF.
	Remaining time.Duration
}

// Armed reports whether the timer was ever armed.
func (s Snapshot) Armed() bool {
	return !s.LastArmedAt.IsZero()
}
