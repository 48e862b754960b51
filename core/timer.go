package core

// Clock rates
const (
	CPUFreq        = 16777216 // 16.78MHz system clock
	HardwareTickHz = 65536    // counter rate with Divider256
	TickHz         = 32768    // logical tick rate returned by Now

	// HardwareTickShift converts hardware ticks to logical ticks (65.536kHz -> 32.768kHz)
	HardwareTickShift = 1

	// CounterModulus is the wrap point of the 16-bit hardware counter
	CounterModulus = 1 << 16

	// ClockDivider is the prescaler the time driver programs
	ClockDivider = Divider256
)

// TicksFromMillis converts milliseconds to logical ticks, rounding up so a
// delay never ends early.
func TicksFromMillis(ms uint64) uint64 {
	return (ms*TickHz + 999) / 1000
}

// TicksFromMicros converts microseconds to logical ticks, rounding up
func TicksFromMicros(us uint64) uint64 {
	return (us*TickHz + 999999) / 1000000
}

// TicksToMicros converts logical ticks to microseconds, rounding down
func TicksToMicros(ticks uint64) uint64 {
	return ticks * 1000000 / TickHz
}

// TicksToMillis converts logical ticks to milliseconds, rounding down
func TicksToMillis(ticks uint64) uint64 {
	return ticks * 1000 / TickHz
}

// Delay completes once the clock reaches a fixed deadline
type Delay struct {
	driver   *TimeDriver
	deadline uint64
}

// Deadline returns the logical time the delay ends at
func (d *Delay) Deadline() uint64 {
	return d.deadline
}

// Elapsed reports whether the deadline has passed. If not, it asks the
// driver to wake w at the deadline and the caller should return Pending.
func (d *Delay) Elapsed(w *Waker) bool {
	if d.driver.Now() >= d.deadline {
		return true
	}
	d.driver.RequestWake(d.deadline, w)
	return false
}

// Poll lets a Delay be spawned directly as a task
func (d *Delay) Poll(w *Waker) Status {
	if d.Elapsed(w) {
		return Done
	}
	return Pending
}

// Ticker fires at a fixed period without accumulating drift
type Ticker struct {
	driver *TimeDriver
	period uint64
	next   uint64
}

// Next reports whether the current tick is due. When it is, the ticker
// advances to the following one; otherwise w is scheduled for the tick.
func (t *Ticker) Next(w *Waker) bool {
	if t.driver.Now() >= t.next {
		t.next += t.period
		return true
	}
	t.driver.RequestWake(t.next, w)
	return false
}

// Reset restarts the ticker one period from now
func (t *Ticker) Reset() {
	t.next = t.driver.Now() + t.period
}

// Period returns the tick period in logical ticks
func (t *Ticker) Period() uint64 {
	return t.period
}
