package core

// Executor polls cooperative tasks and halts the CPU between passes.
//
// Each Step is one RUN state followed by one HALT state. Halt leaves the CPU
// stopped until any interrupt, timer overflow or device, is recognized.
type Executor struct {
	driver *TimeDriver
	halter Halter

	tasks  []*taskSlot
	nextID uint32

	passes uint32
	polls  uint32
	halts  uint32
}

// Spawner adds tasks to a running executor
type Spawner struct {
	executor *Executor
}

// Spawn schedules t; it is polled on the next pass
func (s *Spawner) Spawn(t Task) *Waker {
	return s.executor.Spawn(t)
}

// NewExecutor creates an executor halting through halter. driver may be nil
// when nothing waits on time.
func NewExecutor(driver *TimeDriver, halter Halter) *Executor {
	return &Executor{
		driver: driver,
		halter: halter,
	}
}

// Spawn adds t as a ready task and returns its waker
func (e *Executor) Spawn(t Task) *Waker {
	slot := &taskSlot{task: t}
	slot.waker.id = e.nextID
	e.nextID++
	slot.waker.Wake()
	e.tasks = append(e.tasks, slot)
	return &slot.waker
}

// Poll runs one scheduler pass. Ready tasks are polled until none is left
// ready, including tasks woken by interrupts during the pass, so no work is
// immediately runnable when it returns. Finished tasks are dropped.
func (e *Executor) Poll() {
	e.passes++
	for {
		progressed := false
		for i := 0; i < len(e.tasks); {
			slot := e.tasks[i]
			if !slot.waker.take() {
				i++
				continue
			}

			progressed = true
			e.polls++
			if slot.task.Poll(&slot.waker) == Done {
				copy(e.tasks[i:], e.tasks[i+1:])
				e.tasks[len(e.tasks)-1] = nil
				e.tasks = e.tasks[:len(e.tasks)-1]
				continue
			}
			i++
		}
		if !progressed {
			return
		}
	}
}

// Step runs one pass and then halts until the next interrupt
func (e *Executor) Step() {
	e.Poll()

	e.halts++
	e.halter.Halt()
}

// Run starts the time driver, hands a Spawner to start, and then alternates
// passes and halts for the rest of the program. It never returns.
func (e *Executor) Run(start func(*Spawner)) {
	if e.driver != nil {
		e.driver.Start()
	}

	start(&Spawner{executor: e})

	for {
		e.Step()
	}
}

// Tasks returns the number of unfinished tasks
func (e *Executor) Tasks() int {
	return len(e.tasks)
}

// ExecutorStats counts scheduler activity
type ExecutorStats struct {
	Passes uint32 // scheduler passes
	Polls  uint32 // individual task polls
	Halts  uint32 // halt requests
}

// Stats returns the executor counters
func (e *Executor) Stats() ExecutorStats {
	return ExecutorStats{Passes: e.passes, Polls: e.polls, Halts: e.halts}
}
