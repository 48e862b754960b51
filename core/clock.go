package core

import "sync/atomic"

// ComputeNow converts a hardware counter reading into logical ticks.
//
// period is the number of overflow interrupts seen since Start. Until the first
// overflow there is no period boundary to measure from, so elapsed time is taken
// from the counter value captured at Start. After that it is whole periods plus
// the progress into the current one, measured from the reload value.
func ComputeNow(period, counter, initialCounter, overflowAmount uint32) uint64 {
	overflowStart := CounterModulus - overflowAmount

	var hardwareTicks uint64
	if period == 0 {
		hardwareTicks = uint64((counter - initialCounter) % CounterModulus)
	} else {
		completed := uint64(period) * uint64(overflowAmount)
		inPeriod := uint64((counter - overflowStart) % CounterModulus)
		hardwareTicks = completed + inPeriod
	}

	return hardwareTicks >> HardwareTickShift
}

// Clock extends the 16-bit hardware counter into a 64-bit logical tick count
type Clock struct {
	// period is written only by the overflow interrupt; wraps silently
	period atomic.Uint32

	initialCounter uint32
	overflowAmount uint32

	port TimerPort
}

// NewClock creates a clock reading port, with overflowAmount increments per period
func NewClock(port TimerPort, overflowAmount uint16) *Clock {
	return &Clock{
		port:           port,
		overflowAmount: uint32(overflowAmount),
	}
}

// capture records the counter value the zero-period branch measures from.
// Called once, after the hardware timer has been started.
func (c *Clock) capture() {
	c.initialCounter = uint32(c.port.ReadCounter())
}

// advance counts one completed overflow period
func (c *Clock) advance() uint32 {
	return c.period.Add(1)
}

// Period returns the number of completed overflow periods
func (c *Clock) Period() uint32 {
	return c.period.Load()
}

// Now returns logical ticks since Start.
//
// period is loaded before the counter is read. An overflow interrupt landing
// between the two reads pairs a stale period with a post-reload counter and
// yields a value up to one period low. This is a known race; there is no
// combined read.
func (c *Clock) Now() uint64 {
	period := c.period.Load()
	counter := c.port.ReadCounter()
	return ComputeNow(period, uint32(counter), c.initialCounter, c.overflowAmount)
}
