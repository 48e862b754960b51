//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved CPU interrupt state
type State = interrupt.State

// disableInterrupts masks every interrupt source, the overflow timer included,
// and returns the previous state. On a single core this is all the mutual
// exclusion the alarm state needs.
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts puts back the state saved by disableInterrupts. Pending
// requests are taken by the CPU as soon as it unmasks.
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
