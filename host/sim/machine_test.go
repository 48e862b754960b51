package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gbatime/core"
)

// resetInterrupts clears core's interrupt model around a test.
// Tests here share it, so none of them run in parallel.
func resetInterrupts(t *testing.T) {
	t.Helper()
	core.ResetInterrupts()
	core.ClearTimingRing()
	t.Cleanup(core.ResetInterrupts)
}

func startTimer(m *Machine, overflowAmount uint16) *Timer {
	tmr := m.Timer(core.Timer2)
	tmr.Configure(core.Divider256, overflowAmount)
	tmr.EnableOverflowInterrupt(true)
	tmr.Start(true)
	return tmr
}

func TestTimerReloadAndOverflow(t *testing.T) {
	resetInterrupts(t)

	m := New()
	fired := 0
	core.SetInterruptHandler(core.IRQTimer2, func() { fired++ })
	tmr := startTimer(m, 64)
	require.Equal(t, uint16(0xFFC0), tmr.ReadCounter())

	m.Step(256)
	require.Equal(t, uint16(0xFFC1), tmr.ReadCounter())

	m.Step(63 * 256)
	require.Equal(t, uint16(0xFFC0), tmr.ReadCounter())
	require.Equal(t, uint64(1), tmr.Overflows())
	require.Equal(t, 1, fired)
	require.Equal(t, uint64(64*256), m.Cycles())
}

func TestTimerStoppedDoesNotCount(t *testing.T) {
	resetInterrupts(t)

	m := New()
	tmr := startTimer(m, 64)
	tmr.Start(false)

	m.Step(1 << 20)
	require.Equal(t, uint16(0xFFC0), tmr.ReadCounter())
	require.Zero(t, tmr.Overflows())
}

func TestHaltEndsAtOverflow(t *testing.T) {
	resetInterrupts(t)

	m := New()
	startTimer(m, 16)

	m.Halt()
	require.Equal(t, uint64(16*256), m.Cycles())
	require.Equal(t, uint64(16*256), m.Stats().HaltCycles)
	require.NoError(t, m.Err())
}

func TestHaltEndsAtVBlank(t *testing.T) {
	resetInterrupts(t)

	m := New(WithVBlank())
	frames := 0
	m.SetVBlankHandler(func() { frames++ })

	m.Halt()
	m.Halt()
	require.Equal(t, uint64(2*CyclesPerFrame), m.Cycles())
	require.Equal(t, 2, frames)
	require.Equal(t, uint64(2), m.Stats().VBlanks)
}

func TestHaltWithoutWakeSource(t *testing.T) {
	resetInterrupts(t)

	m := New()
	tmr := startTimer(m, 64)
	tmr.EnableOverflowInterrupt(false)

	m.Halt()
	require.ErrorIs(t, m.Err(), ErrNoWakeSource)
	require.True(t, m.Done())
}

func TestHaltStopsAtLimit(t *testing.T) {
	resetInterrupts(t)

	m := New(WithVBlank(), WithLimit(1000))
	m.Halt()
	require.Equal(t, uint64(1000), m.Cycles())
	require.True(t, m.Done())
	require.NoError(t, m.Err())
}

func TestElapsed(t *testing.T) {
	resetInterrupts(t)

	m := New(WithVBlank())
	m.Step(CyclesFor(250 * time.Millisecond))
	require.Equal(t, 250*time.Millisecond, m.Elapsed())
	require.Equal(t, uint64(core.CPUFreq), CyclesFor(time.Second))
}

func newDriver(t *testing.T, m *Machine, overflowAmount uint16) *core.TimeDriver {
	t.Helper()

	driver, err := core.NewTimeDriver(m.Timer(core.Timer2), core.TimerConfig{
		Timer:          core.Timer2,
		OverflowAmount: overflowAmount,
	})
	require.NoError(t, err)
	m.Attach(driver)
	driver.Start()
	return driver
}

// TestClockTracksCycles verifies logical time follows the simulated cycle count
func TestClockTracksCycles(t *testing.T) {
	resetInterrupts(t)

	m := New()
	driver := newDriver(t, m, 64)

	for _, ms := range []int{1, 7, 100, 999} {
		m.Step(CyclesFor(time.Duration(ms) * time.Millisecond))
		want := m.Cycles() / 256 >> core.HardwareTickShift
		require.Equal(t, want, driver.Now(), "after %dms", ms)
	}
}

// TestStalePeriodRace places an overflow between the period load and the
// counter read. The raced sample goes backwards; the next one recovers.
func TestStalePeriodRace(t *testing.T) {
	resetInterrupts(t)

	m := New()
	driver := newDriver(t, m, 64)
	tmr := m.Timer(core.Timer2)

	m.Step(63 * 256)
	require.Equal(t, uint64(31), driver.Now())

	tmr.OnNextRead(func() { m.Step(256) })
	require.Equal(t, uint64(0), driver.Now())
	require.Equal(t, uint64(32), driver.Now())
}

// TestExecutorWakeLateness runs a sleeping task on the simulated hardware and
// checks each wake lands within one overflow period after its deadline.
func TestExecutorWakeLateness(t *testing.T) {
	resetInterrupts(t)

	m := New(WithVBlank(), WithLimit(CyclesFor(time.Second)))
	driver := newDriver(t, m, 64)
	executor := core.NewExecutor(driver, m)

	period := core.TicksFromMillis(10)
	var delay *core.Delay
	var lateness []uint64
	executor.Spawn(core.TaskFunc(func(w *core.Waker) core.Status {
		if delay == nil {
			delay = driver.After(period)
		}
		for delay.Elapsed(w) {
			lateness = append(lateness, driver.Now()-delay.Deadline())
			if len(lateness) == 5 {
				return core.Done
			}
			delay = driver.At(delay.Deadline() + period)
		}
		return core.Pending
	}))

	for executor.Tasks() > 0 && !m.Done() {
		executor.Step()
	}

	require.Len(t, lateness, 5)
	for i, late := range lateness {
		require.LessOrEqual(t, late, uint64(32), "wake %d", i)
	}
	require.NoError(t, m.Err())
	require.Greater(t, executor.Stats().Halts, uint32(5))
}
