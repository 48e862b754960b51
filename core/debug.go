package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a clock or alarm event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Clock     uint64 // Logical time at event
	Value     uint64 // Deadline, or other context-dependent value
	Aux       uint32 // Context-dependent value (queue depth, period)
}

// Event type codes
const (
	EvtWakeRequest = 1 // RequestWake called
	EvtAlarmSet    = 2 // Next deadline recorded in the future
	EvtAlarmRetry  = 3 // Candidate deadline already due, retried
	EvtWakeCancel  = 4 // Pending wake cancelled
	EvtDriverStart = 5 // Hardware timer started
	EvtHeartbeat   = 6 // Application liveness tick; Aux carries the halt count
)

// EventName returns the short name of an event type code
func EventName(eventType uint8) string {
	switch eventType {
	case EvtWakeRequest:
		return "WAKE_REQ"
	case EvtAlarmSet:
		return "ALARM_SET"
	case EvtAlarmRetry:
		return "ALARM_PAST!"
	case EvtWakeCancel:
		return "WAKE_CANCEL"
	case EvtDriverStart:
		return "DRIVER_START"
	case EvtHeartbeat:
		return "HEARTBEAT"
	}
	return "UNKNOWN"
}

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer, written from both mainline and interrupt context
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8 // Next write position
	timingRingUsed uint8 // Events not yet drained
	timingEnabled  bool  = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to the link port, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// SetTimingEnabled turns event capture on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// RecordTiming captures a timing event in the ring buffer.
// Non-blocking; when full the oldest event is overwritten.
func RecordTiming(eventType uint8, clock, value uint64, aux uint32) {
	if !timingEnabled {
		return
	}

	state := disableInterrupts()
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Clock:     clock,
		Value:     value,
		Aux:       aux,
	}
	timingRingHead = (idx + 1) % TimingRingSize
	if timingRingUsed < TimingRingSize {
		timingRingUsed++
	}
	restoreInterrupts(state)
}

// DrainTiming hands every undrained event to fn, oldest first, and marks
// them drained. fn runs with interrupts enabled.
func DrainTiming(fn func(TimingEvent)) int {
	var events [TimingRingSize]TimingEvent

	state := disableInterrupts()
	n := int(timingRingUsed)
	start := (int(timingRingHead) + TimingRingSize - n) % TimingRingSize
	for i := 0; i < n; i++ {
		events[i] = timingRing[(start+i)%TimingRingSize]
	}
	timingRingUsed = 0
	restoreInterrupts(state)

	for i := 0; i < n; i++ {
		fn(events[i])
	}
	return n
}

// DumpTimingRing outputs the undrained events through the debug writer
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	DrainTiming(func(evt TimingEvent) {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" clock=" + utoa(evt.Clock) +
			" value=" + deadlineString(evt.Value) +
			" aux=" + utoa(uint64(evt.Aux)))
	})
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
	timingRingUsed = 0
	restoreInterrupts(state)
}
