//go:build !tinygo

package core

import "math/bits"

// State is the saved masking state on regular Go
type State uintptr

// Regular Go has no interrupt controller, so one is modelled here for the
// simulator and tests. Everything runs on a single goroutine the way mainline
// and interrupt code share the one core: a raised line either runs its handler
// straight away, or stays pending until the critical section that masks it ends.
var (
	irqMasked   bool
	irqPending  uint32
	irqHandlers [irqCount]func()
)

// disableInterrupts masks interrupts and returns the previous state
func disableInterrupts() State {
	var prev State
	if irqMasked {
		prev = 1
	}
	irqMasked = true
	return prev
}

// restoreInterrupts restores the masking state and delivers whatever became
// pending while masked.
func restoreInterrupts(state State) {
	irqMasked = state != 0
	if !irqMasked {
		dispatchPending()
	}
}

func dispatchPending() {
	for irqPending != 0 && !irqMasked {
		line := IRQ(bits.TrailingZeros32(irqPending))
		irqPending &^= 1 << line
		runHandler(line)
	}
}

// runHandler enters a handler with interrupts masked, like the IRQ vector does
func runHandler(irq IRQ) {
	handler := irqHandlers[irq]
	if handler == nil {
		return
	}
	state := disableInterrupts()
	defer restoreInterrupts(state)
	handler()
}

// SetInterruptHandler installs the handler for an interrupt line.
// A nil handler leaves the line acknowledged but unserviced.
func SetInterruptHandler(irq IRQ, handler func()) {
	irqHandlers[irq] = handler
}

// RaiseInterrupt requests an interrupt. Returns true if the handler ran
// immediately, false if the request was left pending behind a critical section.
func RaiseInterrupt(irq IRQ) bool {
	if irqMasked {
		irqPending |= 1 << irq
		return false
	}
	runHandler(irq)
	return true
}

// InterruptPending reports whether any interrupt is waiting to be delivered
func InterruptPending() bool {
	return irqPending != 0
}

// InterruptsMasked reports whether the caller is inside a critical section
// or an interrupt handler.
func InterruptsMasked() bool {
	return irqMasked
}

// ResetInterrupts drops all handlers and pending requests
func ResetInterrupts() {
	irqMasked = false
	irqPending = 0
	irqHandlers = [irqCount]func(){}
}
