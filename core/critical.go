package core

// CriticalSection runs fn with interrupts disabled. The previous interrupt
// state is restored on every exit path, including a panic out of fn.
// Keep fn short: the overflow interrupt is held off while it runs.
func CriticalSection(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}
