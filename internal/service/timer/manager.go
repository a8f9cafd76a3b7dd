package timer

import (
	"context"
	"sync/atomic"
	"time"

	domain "github.com/oshokin/nfc-timer/internal/domain/timer"
	"github.com/oshokin/nfc-timer/internal/logger"
)

// Manager owns the single activation window shared by every request.
type Manager struct {
	// lastArmedAt holds Unix nanoseconds of the latest arm, or domain.NeverArmed.
	lastArmedAt atomic.Int64
	// duration is fixed for the lifetime of the manager.
	duration time.Duration
	// clock supplies the current time.
	clock Clock
	// location is used to render the readable start time.
	location *time.Location
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLocation sets the time zone used to render start times.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) {
		if loc != nil {
			m.location = loc
		}
	}
}

// NewManager creates a manager in the never-armed state.
// A non-positive duration falls back to domain.DefaultDuration.
func NewManager(duration time.Duration, opts ...Option) *Manager {
	if duration <= 0 {
		duration = domain.DefaultDuration
	}

	m := &Manager{
		duration: duration,
		clock:    SystemClock{},
		location: time.Local,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.lastArmedAt.Store(domain.NeverArmed)

	return m
}

// Duration returns the window length.
func (m *Manager) Duration() time.Duration {
	return m.duration
}

// Location returns the zone used for readable start times.
func (m *Manager) Location() *time.Location {
	return m.location
}

// Arm restarts the window at the current time. Concurrent arms resolve as last write wins.
func (m *Manager) Arm(ctx context.Context) domain.Activation {
	now := m.clock.Now()
	m.lastArmedAt.Store(now.UnixNano())

	activation := domain.Activation{
		StartedAt: now,
		EndsAt:    now.Add(m.duration),
	}

	logger.InfoKV(ctx, "Timer armed",
		"start", activation.StartClock(m.location),
		"end_timestamp", activation.EndTimestamp(),
	)

	return activation
}

// IsActive reports whether now - lastArmedAt <= duration.
func (m *Manager) IsActive(_ context.Context) bool {
	return m.activeAt(m.lastArmedAt.Load(), m.clock.Now())
}

// Snapshot reports the window as seen at the current instant.
// All fields derive from a single load of the stored timestamp.
func (m *Manager) Snapshot(ctx context.Context) domain.Snapshot {
	var (
		stored = m.lastArmedAt.Load()
		now    = m.clock.Now()
		active = m.activeAt(stored, now)
	)

	snapshot := domain.Snapshot{
		ObservedAt: now,
		Duration:   m.duration,
		State:      domain.State(active),
	}

	if stored != domain.NeverArmed {
		snapshot.LastArmedAt = time.Unix(0, stored)
	}

	if active {
		snapshot.Remaining = min(m.duration, m.duration-time.Duration(now.UnixNano()-stored))
	}

	logger.DebugKV(ctx, "Timer snapshot", "state", snapshot.State.String(), "remaining", snapshot.Remaining)

	return snapshot
}

func (m *Manager) activeAt(stored int64, now time.Time) bool {
	return now.UnixNano()-stored <= m.duration.Nanoseconds()
}
