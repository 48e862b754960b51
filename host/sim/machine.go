package sim

import (
	"errors"
	"fmt"
	"time"

	"gbatime/core"
)

const (
	// CyclesPerFrame is the CPU cycles between VBlank interrupts (228 lines of 1232 cycles)
	CyclesPerFrame = 280896

	// maxChunk bounds a single step when nothing else limits it
	maxChunk = CyclesPerFrame
)

// ErrNoWakeSource is reported when a halt could never end
var ErrNoWakeSource = errors.New("halt with no interrupt source enabled")

// Machine is the simulated CPU: four timers, the VBlank interrupt and a
// cycle counter. Interrupts are delivered through core's interrupt model.
type Machine struct {
	timers [4]*Timer

	vblank          bool
	vblankRemaining uint32

	cycles uint64
	limit  uint64

	halts      uint64
	haltCycles uint64
	interrupts uint64
	vblanks    uint64
	stuck      error
}

// Option configures a Machine
type Option func(*Machine)

// WithVBlank enables the VBlank interrupt, raised once per frame
func WithVBlank() Option {
	return func(m *Machine) {
		m.vblank = true
	}
}

// WithLimit stops the machine after the given number of CPU cycles. A halt
// that would run past the limit returns there instead.
func WithLimit(cycles uint64) Option {
	return func(m *Machine) {
		m.limit = cycles
	}
}

// New creates a machine with all timers stopped
func New(opts ...Option) *Machine {
	m := &Machine{
		timers: [4]*Timer{
			newTimer(core.IRQTimer0),
			newTimer(core.IRQTimer1),
			newTimer(core.IRQTimer2),
			newTimer(core.IRQTimer3),
		},
		vblankRemaining: CyclesPerFrame,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Timer returns the model of timer n, or nil for TimerNone
func (m *Machine) Timer(n core.TimerNumber) *Timer {
	idx := n.Index()
	if idx < 0 {
		return nil
	}
	return m.timers[idx]
}

// Attach installs the overflow handler of driver on its timer's interrupt line
func (m *Machine) Attach(driver *core.TimeDriver) {
	core.SetInterruptHandler(driver.Config().Timer.IRQ(), driver.OnOverflow)
}

// SetVBlankHandler installs fn as the VBlank interrupt handler
func (m *Machine) SetVBlankHandler(fn func()) {
	core.SetInterruptHandler(core.IRQVBlank, fn)
}

// Step advances the machine by cycles CPU cycles, raising interrupts as
// timers overflow and frames end. It stops early at the limit.
func (m *Machine) Step(cycles uint64) {
	for cycles > 0 && !m.Done() {
		chunk := m.nextChunk(cycles)
		m.advance(chunk)
		cycles -= uint64(chunk)
	}
}

// Halt implements core.Halter. It returns immediately if an interrupt is
// pending, and otherwise runs the machine until one is delivered, the limit
// is reached, or no interrupt source is left.
func (m *Machine) Halt() {
	m.halts++
	if core.InterruptPending() {
		return
	}

	start := m.cycles
	raised := m.interrupts
	for m.interrupts == raised && !m.Done() {
		if !m.hasWakeSource() {
			m.stuck = fmt.Errorf("at cycle %d: %w", m.cycles, ErrNoWakeSource)
			break
		}
		m.advance(m.nextChunk(maxChunk))
	}
	m.haltCycles += m.cycles - start
}

// Done reports whether the limit is reached or the machine is stuck in a halt
func (m *Machine) Done() bool {
	if m.stuck != nil {
		return true
	}
	return m.limit != 0 && m.cycles >= m.limit
}

// Err returns ErrNoWakeSource, wrapped, if a halt could not end
func (m *Machine) Err() error {
	return m.stuck
}

// Cycles returns the CPU cycles elapsed since New
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// Elapsed converts the elapsed cycles to simulated wall time
func (m *Machine) Elapsed() time.Duration {
	return time.Duration(m.cycles * uint64(time.Second) / core.CPUFreq)
}

// CyclesFor converts a simulated duration to CPU cycles
func CyclesFor(d time.Duration) uint64 {
	return uint64(d) * core.CPUFreq / uint64(time.Second)
}

// Stats counts machine activity
type Stats struct {
	Cycles     uint64
	Halts      uint64
	HaltCycles uint64
	Interrupts uint64
	VBlanks    uint64
	Overflows  [4]uint64
}

// Stats returns the machine counters
func (m *Machine) Stats() Stats {
	s := Stats{
		Cycles:     m.cycles,
		Halts:      m.halts,
		HaltCycles: m.haltCycles,
		Interrupts: m.interrupts,
		VBlanks:    m.vblanks,
	}
	for i, tmr := range m.timers {
		s.Overflows[i] = tmr.overflows
	}
	return s
}

// nextChunk returns how far the machine can advance before something changes
func (m *Machine) nextChunk(budget uint64) uint32 {
	chunk := uint32(maxChunk)
	if budget < uint64(chunk) {
		chunk = uint32(budget)
	}
	if m.limit != 0 && m.limit-m.cycles < uint64(chunk) {
		chunk = uint32(m.limit - m.cycles)
	}
	if m.vblank && m.vblankRemaining < chunk {
		chunk = m.vblankRemaining
	}
	for _, tmr := range m.timers {
		if tmr.running && tmr.cyclesToEvent() < chunk {
			chunk = tmr.cyclesToEvent()
		}
	}
	return chunk
}

func (m *Machine) advance(chunk uint32) {
	m.cycles += uint64(chunk)

	for _, tmr := range m.timers {
		if tmr.step(chunk) {
			m.interrupts++
		}
	}

	if !m.vblank {
		return
	}
	m.vblankRemaining -= chunk
	if m.vblankRemaining == 0 {
		m.vblankRemaining = CyclesPerFrame
		m.vblanks++
		m.interrupts++
		core.RaiseInterrupt(core.IRQVBlank)
	}
}

func (m *Machine) hasWakeSource() bool {
	if m.vblank {
		return true
	}
	for _, tmr := range m.timers {
		if tmr.running && tmr.irq {
			return true
		}
	}
	return false
}
