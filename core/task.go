package core

import "sync/atomic"

// Status is the result of polling a task
type Status uint8

const (
	Pending Status = 0 // blocked until its Waker is woken
	Done    Status = 1 // finished, drop it
)

// Task is a unit of cooperative work. Poll runs it until it either finishes
// or has to wait; before returning Pending it must arrange for w to be woken,
// usually through TimeDriver.RequestWake.
type Task interface {
	Poll(w *Waker) Status
}

// TaskFunc adapts a plain function to the Task interface
type TaskFunc func(w *Waker) Status

// Poll calls f(w)
func (f TaskFunc) Poll(w *Waker) Status {
	return f(w)
}

// Waker is the wake handle of one task. Wake only raises a flag, so it is
// safe from interrupt context; the executor notices the flag on its next pass.
type Waker struct {
	ready atomic.Bool
	id    uint32
}

// Wake marks the task ready to be polled
func (w *Waker) Wake() {
	w.ready.Store(true)
}

// Ready reports whether the task is waiting to be polled
func (w *Waker) Ready() bool {
	return w.ready.Load()
}

// ID returns the task's spawn number
func (w *Waker) ID() uint32 {
	return w.id
}

// take clears the ready flag, returning whether it was set
func (w *Waker) take() bool {
	return w.ready.CompareAndSwap(true, false)
}

// taskSlot pairs a task with its waker
type taskSlot struct {
	task  Task
	waker Waker
}
