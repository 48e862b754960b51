package sim

import (
	"fmt"

	"gbatime/core"
)

// Timer models one of the four 16-bit reload timers. It implements core.TimerPort.
type Timer struct {
	line core.IRQ

	divider core.Divider
	reload  uint16
	counter uint16
	irq     bool
	running bool

	// ticksRemaining is the number of CPU cycles before the counter next
	// increments. It is reset to the prescaler length on every increment.
	ticksRemaining uint32

	overflows uint64

	// onRead runs once inside the next ReadCounter, before the value is taken
	onRead func()
}

func newTimer(line core.IRQ) *Timer {
	return &Timer{line: line, ticksRemaining: 1}
}

func (tmr *Timer) String() string {
	return fmt.Sprintf("%s cnt=%#04x reload=%#04x div=%d remn=%d run=%v irq=%v",
		tmr.line, tmr.counter, tmr.reload, tmr.divider.Cycles(),
		tmr.ticksRemaining, tmr.running, tmr.irq)
}

// Configure sets the prescaler and the reload value
func (tmr *Timer) Configure(divider core.Divider, overflowAmount uint16) {
	tmr.divider = divider
	tmr.reload = uint16(core.CounterModulus - uint32(overflowAmount))
}

// EnableOverflowInterrupt sets the IRQ enable bit
func (tmr *Timer) EnableOverflowInterrupt(enable bool) {
	tmr.irq = enable
}

// Start sets the start bit. Starting a stopped timer loads the reload value.
func (tmr *Timer) Start(enable bool) {
	if enable && !tmr.running {
		tmr.counter = tmr.reload
		tmr.ticksRemaining = tmr.divider.Cycles()
	}
	tmr.running = enable
}

// ReadCounter returns the live counter value
func (tmr *Timer) ReadCounter() uint16 {
	if tmr.onRead != nil {
		hook := tmr.onRead
		tmr.onRead = nil
		hook()
	}
	return tmr.counter
}

// OnNextRead installs a hook run once by the next ReadCounter, before the
// counter is sampled. The hook may step the machine, which places an
// overflow between the two reads of a clock sample.
func (tmr *Timer) OnNextRead(hook func()) {
	tmr.onRead = hook
}

// Overflows returns the number of reloads since the machine was created
func (tmr *Timer) Overflows() uint64 {
	return tmr.overflows
}

// Running reports whether the start bit is set
func (tmr *Timer) Running() bool {
	return tmr.running
}

// cyclesToEvent returns the CPU cycles until the counter next changes
func (tmr *Timer) cyclesToEvent() uint32 {
	return tmr.ticksRemaining
}

// step advances the timer by cycles, which must not exceed cyclesToEvent.
// Returns true if an overflow interrupt was requested.
func (tmr *Timer) step(cycles uint32) bool {
	if !tmr.running {
		return false
	}

	tmr.ticksRemaining -= cycles
	if tmr.ticksRemaining > 0 {
		return false
	}
	tmr.ticksRemaining = tmr.divider.Cycles()

	if tmr.counter != 0xFFFF {
		tmr.counter++
		return false
	}

	tmr.counter = tmr.reload
	tmr.overflows++
	if !tmr.irq {
		return false
	}
	core.RaiseInterrupt(tmr.line)
	return true
}
