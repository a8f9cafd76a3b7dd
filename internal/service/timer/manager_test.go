package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/nfc-timer/internal/domain/timer"
)

// manualClock is a Clock whose time only moves when the test says so.
type manualClock struct {
	now atomic.Int64
}

func newManualClock(t time.Time) *manualClock {
	c := new(manualClock)
	c.now.Store(t.UnixNano())

	return c
}

func (c *manualClock) Now() time.Time { return time.Unix(0, c.now.Load()) }

func (c *manualClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

// TestManager_InitiallyInactive verifies the never-armed sentinel reads as OFF.
func TestManager_InitiallyInactive(t *testing.T) {
	t.Parallel()

	m := NewManager(10 * time.Second)

	require.False(t, m.IsActive(context.Background()))

	snapshot := m.Snapshot(context.Background())
	require.False(t, snapshot.Armed())
	require.Equal(t, domain.StateOff, snapshot.State)
	require.Zero(t, snapshot.Remaining)
}

// TestManager_DefaultDuration checks that a non-positive duration falls back to the default.
func TestManager_DefaultDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.DefaultDuration, NewManager(0).Duration())
	require.Equal(t, domain.DefaultDuration, NewManager(-time.Second).Duration())
	require.Equal(t, 3*time.Second, NewManager(3*time.Second).Duration())
}

// TestManager_ArmActivatesImmediately checks Arm then IsActive returns true.
func TestManager_ArmActivatesImmediately(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(10 * time.Second)

	m.Arm(ctx)
	require.True(t, m.IsActive(ctx))
}

// TestManager_ArmReturnsWindow checks the returned activation values.
func TestManager_ArmReturnsWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(10*time.Second, WithClock(newManualClock(start)), WithLocation(time.UTC))

	activation := m.Arm(context.Background())

	require.True(t, start.Equal(activation.StartedAt))
	require.True(t, start.Add(10*time.Second).Equal(activation.EndsAt))
	require.Equal(t, "12:00:00", activation.StartClock(m.Location()))
	require.InDelta(t, float64(start.Unix()+10), activation.EndTimestamp(), 1e-6)
}

// TestManager_BoundaryIsInclusive arms at T and probes T+9s, T+10s and just past it.
func TestManager_BoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newManualClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	m := NewManager(10*time.Second, WithClock(clock))

	m.Arm(ctx)

	clock.Advance(9 * time.Second)
	require.True(t, m.IsActive(ctx))

	clock.Advance(time.Second)
	require.True(t, m.IsActive(ctx))

	clock.Advance(time.Nanosecond)
	require.False(t, m.IsActive(ctx))
}

// TestManager_RearmExtendsWindow verifies a second arm restarts the window from its own time.
func TestManager_RearmExtendsWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newManualClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	m := NewManager(10*time.Second, WithClock(clock))

	m.Arm(ctx)
	clock.Advance(8 * time.Second)
	m.Arm(ctx)

	// First window would have closed here.
	clock.Advance(5 * time.Second)
	require.True(t, m.IsActive(ctx))

	clock.Advance(5 * time.Second)
	require.True(t, m.IsActive(ctx))

	clock.Advance(time.Millisecond)
	require.False(t, m.IsActive(ctx))

	// Re-arming after expiry also works.
	m.Arm(ctx)
	require.True(t, m.IsActive(ctx))
}

// TestManager_Snapshot reports remaining time derived from the same stored value.
func TestManager_Snapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := newManualClock(start)
	m := NewManager(10*time.Second, WithClock(clock))

	m.Arm(ctx)
	clock.Advance(4 * time.Second)

	snapshot := m.Snapshot(ctx)
	require.True(t, snapshot.Armed())
	require.True(t, start.Equal(snapshot.LastArmedAt))
	require.Equal(t, domain.StateOn, snapshot.State)
	require.Equal(t, 6*time.Second, snapshot.Remaining)
	require.Equal(t, 10*time.Second, snapshot.Duration)

	clock.Advance(7 * time.Second)

	snapshot = m.Snapshot(ctx)
	require.Equal(t, domain.StateOff, snapshot.State)
	require.Zero(t, snapshot.Remaining)
}

// TestManager_RealClockWindow runs the documented example against the system clock in a bubble.
func TestManager_RealClockWindow(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		m := NewManager(10 * time.Second)

		m.Arm(ctx)

		time.Sleep(9 * time.Second)
		require.True(t, m.IsActive(ctx))

		time.Sleep(time.Second)
		require.True(t, m.IsActive(ctx))

		time.Sleep(time.Second)
		require.False(t, m.IsActive(ctx))
	})
}

// TestManager_ConcurrentArmAndRead hammers the manager from many goroutines.
// Every observed snapshot must carry one of the timestamps actually stored.
func TestManager_ConcurrentArmAndRead(t *testing.T) {
	t.Parallel()

	var (
		ctx     = context.Background()
		base    = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		stamps  = make(map[int64]struct{})
		stampMu sync.Mutex
		ticks   atomic.Int64
	)

	// Each call returns a distinct time so stored values are identifiable.
	clock := ClockFunc(func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
	})

	m := NewManager(time.Hour, WithClock(clock))

	const (
		writers = 8
		readers = 32
		rounds  = 200
	)

	var wg sync.WaitGroup

	for range writers {
		wg.Go(func() {
			for range rounds {
				a := m.Arm(ctx)

				stampMu.Lock()
				stamps[a.StartedAt.UnixNano()] = struct{}{}
				stampMu.Unlock()
			}
		})
	}

	observed := make(chan int64, readers*rounds)

	for range readers {
		wg.Go(func() {
			for range rounds {
				snapshot := m.Snapshot(ctx)
				if !snapshot.Armed() {
					continue
				}

				if snapshot.State != domain.StateOn {
					t.Errorf("armed snapshot reported %s", snapshot.State)
				}

				observed <- snapshot.LastArmedAt.UnixNano()
			}
		})
	}

	wg.Wait()
	close(observed)

	for ts := range observed {
		_, ok := stamps[ts]
		require.True(t, ok, "observed timestamp %d was never stored", ts)
	}
}
