package core

import "math"

// Infinite marks "no deadline pending"
const Infinite uint64 = math.MaxUint64

// WakeHandle is signalled when its deadline passes. Wake may run in
// interrupt context and must not block.
type WakeHandle interface {
	Wake()
}

// deadlineEntry is one pending wake request
type deadlineEntry struct {
	deadline uint64
	handle   WakeHandle
	next     *deadlineEntry
}

// DeadlineQueue holds pending wake requests sorted by deadline.
// A handle has at most one entry; scheduling it again keeps the earlier deadline.
// The queue does no locking of its own: callers hold a critical section.
type DeadlineQueue struct {
	head  *deadlineEntry
	count int
}

// NewDeadlineQueue creates an empty queue
func NewDeadlineQueue() *DeadlineQueue {
	return &DeadlineQueue{}
}

// Schedule queues h to be woken at deadline. Returns true if the queue
// changed (new entry, or an existing entry moved earlier).
func (q *DeadlineQueue) Schedule(deadline uint64, h WakeHandle) bool {
	if e := q.unlink(h); e != nil {
		if e.deadline <= deadline {
			// Already queued for an earlier time, put it back untouched
			q.insert(e)
			return false
		}
		e.deadline = deadline
		q.insert(e)
		return true
	}

	q.insert(&deadlineEntry{deadline: deadline, handle: h})
	return true
}

// insert links e in sorted order, after any entries with the same deadline
func (q *DeadlineQueue) insert(e *deadlineEntry) {
	q.count++
	if q.head == nil || e.deadline < q.head.deadline {
		e.next = q.head
		q.head = e
		return
	}

	current := q.head
	for current.next != nil && current.next.deadline <= e.deadline {
		current = current.next
	}

	e.next = current.next
	current.next = e
}

// unlink removes and returns the entry for h, or nil if h is not queued
func (q *DeadlineQueue) unlink(h WakeHandle) *deadlineEntry {
	var prev *deadlineEntry
	for e := q.head; e != nil; e = e.next {
		if e.handle != h {
			prev = e
			continue
		}
		if prev == nil {
			q.head = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		q.count--
		return e
	}
	return nil
}

// Cancel removes h without waking it. Returns false if h was not queued.
func (q *DeadlineQueue) Cancel(h WakeHandle) bool {
	return q.unlink(h) != nil
}

// NextExpiration wakes and removes every entry due at now, then returns the
// earliest remaining deadline, or Infinite if the queue is empty.
func (q *DeadlineQueue) NextExpiration(now uint64) uint64 {
	for q.head != nil && q.head.deadline <= now {
		e := q.head
		q.head = e.next
		e.next = nil // Clear Next pointer to avoid holding the rest of the list
		q.count--

		e.handle.Wake()
	}

	if q.head == nil {
		return Infinite
	}
	return q.head.deadline
}

// Peek returns the earliest deadline without expiring anything
func (q *DeadlineQueue) Peek() uint64 {
	if q.head == nil {
		return Infinite
	}
	return q.head.deadline
}

// Len returns the number of pending entries
func (q *DeadlineQueue) Len() int {
	return q.count
}
