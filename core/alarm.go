package core

// AlarmScheduler decides when pending wake requests are due.
//
// The hardware has no compare-match, so due entries are only found when the
// overflow interrupt runs OnPeriodicCheck. A wake therefore fires at the first
// check at or after its deadline, up to one overflow period late.
//
// next and the queue are shared between mainline and the overflow interrupt.
// Every read-modify-write happens with interrupts disabled.
type AlarmScheduler struct {
	queue *DeadlineQueue
	next  uint64
	now   func() uint64

	checks  uint32
	retries uint32
}

// NewAlarmScheduler creates a scheduler reading the clock through now
func NewAlarmScheduler(now func() uint64) *AlarmScheduler {
	return &AlarmScheduler{
		queue: NewDeadlineQueue(),
		next:  Infinite,
		now:   now,
	}
}

// RequestWake queues h to be woken once the clock reaches deadline.
// A deadline earlier than the tracked next one is evaluated immediately, so a
// deadline already in the past is signalled before RequestWake returns.
func (a *AlarmScheduler) RequestWake(deadline uint64, h WakeHandle) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	RecordTiming(EvtWakeRequest, a.now(), deadline, 0)

	if !a.queue.Schedule(deadline, h) {
		return
	}
	if deadline < a.next {
		a.rearm(a.now())
	}
}

// Cancel drops a pending wake for h. Returns false if none was queued,
// which is the case when it already fired.
//
// next is left alone: if it pointed at the cancelled entry the following
// check simply finds nothing due.
func (a *AlarmScheduler) Cancel(h WakeHandle) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	removed := a.queue.Cancel(h)
	if removed {
		RecordTiming(EvtWakeCancel, a.now(), 0, uint32(a.queue.Len()))
	}
	return removed
}

// OnPeriodicCheck wakes every entry due at now and records the next
// deadline. Interrupt context only; the caller holds the critical section.
func (a *AlarmScheduler) OnPeriodicCheck(now uint64) {
	a.checks++
	a.next = Infinite
	a.rearm(now)
}

// rearm expires due entries and records the earliest remaining deadline.
// The clock keeps moving while this runs, so a candidate can already be due
// by the time it is recorded; it is then expired too and the next one tried.
// Ends with a deadline strictly in the future, or Infinite.
func (a *AlarmScheduler) rearm(now uint64) {
	next := a.queue.NextExpiration(now)
	for !a.setAlarm(next) {
		a.retries++
		next = a.queue.NextExpiration(a.now())
	}
}

// setAlarm records deadline as the next one. Returns false, and clears it
// again, if deadline has already passed.
func (a *AlarmScheduler) setAlarm(deadline uint64) bool {
	a.next = deadline
	if deadline == Infinite {
		return true
	}

	now := a.now()
	if deadline <= now {
		a.next = Infinite
		RecordTiming(EvtAlarmRetry, now, deadline, 0)
		return false
	}

	RecordTiming(EvtAlarmSet, now, deadline, uint32(a.queue.Len()))
	return true
}

// NextDeadline returns the recorded next deadline, or Infinite
func (a *AlarmScheduler) NextDeadline() uint64 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return a.next
}

// Pending returns the number of queued wake requests
func (a *AlarmScheduler) Pending() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return a.queue.Len()
}

// AlarmStats counts periodic checks and retry-loop iterations
type AlarmStats struct {
	Checks  uint32
	Retries uint32
}

// Stats returns the check and retry counters
func (a *AlarmScheduler) Stats() AlarmStats {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return AlarmStats{Checks: a.checks, Retries: a.retries}
}
