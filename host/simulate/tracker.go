package simulate

import (
	"time"

	"gbatime/core"
	"gbatime/host/config"
)

// tracker is a periodic task that measures how late each wake-up is
type tracker struct {
	name       string
	driver     *core.TimeDriver
	period     uint64
	iterations int

	delay     *core.Delay
	wakes     int
	maxLate   uint64
	totalLate uint64
}

func newTracker(driver *core.TimeDriver, task config.Task) *tracker {
	period := core.TicksFromMicros(uint64(task.Period / time.Microsecond))
	if period == 0 {
		// A zero period would elapse on every poll and never let the pass end
		period = 1
	}
	return &tracker{
		name:       task.Name,
		driver:     driver,
		period:     period,
		iterations: task.Iterations,
	}
}

func (tr *tracker) Poll(w *core.Waker) core.Status {
	if tr.delay == nil {
		tr.delay = tr.driver.After(tr.period)
	}

	for tr.delay.Elapsed(w) {
		late := tr.driver.Now() - tr.delay.Deadline()
		tr.wakes++
		tr.totalLate += late
		if late > tr.maxLate {
			tr.maxLate = late
		}

		if tr.iterations > 0 && tr.wakes >= tr.iterations {
			return core.Done
		}
		tr.delay = tr.driver.At(tr.delay.Deadline() + tr.period)
	}

	return core.Pending
}

func (tr *tracker) report() TaskReport {
	r := TaskReport{
		Name:        tr.name,
		Wakes:       tr.wakes,
		MaxLateness: ticksToDuration(tr.maxLate),
	}
	if tr.wakes > 0 {
		r.MeanLateness = ticksToDuration(tr.totalLate / uint64(tr.wakes))
	}
	return r
}

func ticksToDuration(ticks uint64) time.Duration {
	return time.Duration(core.TicksToMicros(ticks)) * time.Microsecond
}
