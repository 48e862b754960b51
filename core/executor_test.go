package core

import "testing"

// countingHalter counts halt requests
type countingHalter struct {
	halts int
	// each, if set, runs on every halt as the interrupt that ends it
	each func()
}

func (h *countingHalter) Halt() {
	h.halts++
	if h.each != nil {
		h.each()
	}
}

func TestExecutorOneHaltPerPass(t *testing.T) {
	halter := &countingHalter{}
	executor := NewExecutor(nil, halter)

	polled := 0
	executor.Spawn(TaskFunc(func(w *Waker) Status {
		polled++
		return Pending
	}))

	for i := 1; i <= 5; i++ {
		executor.Step()
		if halter.halts != i {
			t.Fatalf("After %d passes expected %d halts, got %d", i, i, halter.halts)
		}
	}

	if polled != 1 {
		t.Errorf("Expected a blocked task to be polled once, got %d", polled)
	}
	stats := executor.Stats()
	if stats.Passes != 5 || stats.Halts != 5 {
		t.Errorf("Expected 5 passes and 5 halts, got %+v", stats)
	}
}

func TestExecutorDropsFinishedTasks(t *testing.T) {
	executor := NewExecutor(nil, &countingHalter{})

	executor.Spawn(TaskFunc(func(w *Waker) Status { return Done }))
	executor.Spawn(TaskFunc(func(w *Waker) Status { return Pending }))

	executor.Poll()
	if executor.Tasks() != 1 {
		t.Errorf("Expected 1 task left, got %d", executor.Tasks())
	}
}

func TestExecutorPassLeavesNothingRunnable(t *testing.T) {
	executor := NewExecutor(nil, &countingHalter{})

	runs := 0
	first := executor.Spawn(TaskFunc(func(w *Waker) Status {
		runs++
		return Pending
	}))
	woke := false
	executor.Spawn(TaskFunc(func(w *Waker) Status {
		// Wakes a task earlier in the list, after it has already been polled
		if !woke {
			woke = true
			first.Wake()
		}
		return Pending
	}))

	executor.Poll()
	if runs != 2 {
		t.Errorf("Expected the re-woken task polled again in the same pass, got %d polls", runs)
	}
	if first.Ready() {
		t.Error("Expected no task left ready after a pass")
	}
	if executor.Stats().Passes != 1 {
		t.Errorf("Expected a single pass, got %d", executor.Stats().Passes)
	}
}

func TestExecutorWakeFromInterrupt(t *testing.T) {
	halter := &countingHalter{}
	executor := NewExecutor(nil, halter)

	polled := 0
	w := executor.Spawn(TaskFunc(func(w *Waker) Status {
		polled++
		return Pending
	}))
	halter.each = w.Wake

	executor.Step()
	executor.Step()
	executor.Step()

	if polled != 3 {
		t.Errorf("Expected a poll after every woken halt, got %d", polled)
	}
}

func TestExecutorSleepingTask(t *testing.T) {
	driver, port := newTestDriver(t, 64)

	// Each halt lasts until the next overflow, like a halt with only the timer armed
	halter := &countingHalter{each: func() { port.tick(64) }}
	executor := NewExecutor(driver, halter)

	period := TicksFromMillis(10)
	var wakes []uint64
	delay := driver.After(period)
	executor.Spawn(TaskFunc(func(w *Waker) Status {
		for delay.Elapsed(w) {
			wakes = append(wakes, driver.Now())
			if len(wakes) == 3 {
				return Done
			}
			delay = driver.At(delay.Deadline() + period)
		}
		return Pending
	}))

	for i := 0; i < 100 && executor.Tasks() > 0; i++ {
		executor.Step()
	}

	if len(wakes) != 3 {
		t.Fatalf("Expected 3 wakes, got %d", len(wakes))
	}
	for i, at := range wakes {
		deadline := uint64(i+1) * period
		if at < deadline {
			t.Errorf("Wake %d at %d before deadline %d", i, at, deadline)
		}
		if at-deadline > 32 {
			t.Errorf("Wake %d at %d more than one period after deadline %d", i, at, deadline)
		}
	}
}

func TestExecutorHaltsAreCountedNotRecorded(t *testing.T) {
	driver, port := newTestDriver(t, 64)
	ClearTimingRing()

	halter := &countingHalter{each: func() { port.tick(64) }}
	executor := NewExecutor(driver, halter)
	executor.Spawn(TaskFunc(func(w *Waker) Status { return Pending }))

	for i := 0; i < 100; i++ {
		executor.Step()
	}

	if events := DrainTiming(func(TimingEvent) {}); events != 0 {
		t.Errorf("Expected idle passes to leave the timing ring empty, got %d events", events)
	}
	if stats := executor.Stats(); stats.Halts != 100 {
		t.Errorf("Expected 100 halts counted, got %d", stats.Halts)
	}
}
