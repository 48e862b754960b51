//go:build gameboyadvance

package main

import (
	"runtime/interrupt"

	"gbatime/core"
	"gbatime/trace"
)

const (
	// heartbeatMillis is the period of the liveness event
	heartbeatMillis = 500
	// drainMillis is how often the timing ring is flushed to the link port
	drainMillis = 50
)

var (
	driver   *core.TimeDriver
	executor *core.Executor
	link     uart
)

func main() {
	link = newUART()

	cfg := core.DefaultTimerConfig()
	cfg.Timer = clockTimer

	var err error
	driver, err = core.NewTimeDriver(newTimer(clockTimer.Index()), cfg)
	if err != nil {
		core.SetDebugWriter(link.WriteString)
		core.SetDebugEnabled(true)
		core.DebugPrintln("[CLOCK] " + err.Error())
		for {
			halter{}.Halt()
		}
	}

	interrupt.New(clockIRQ, func(interrupt.Interrupt) {
		driver.OnOverflow()
	}).Enable()
	enableInterrupts()

	executor = core.NewExecutor(driver, halter{})
	executor.Run(func(s *core.Spawner) {
		s.Spawn(newHeartbeat())
		s.Spawn(newTraceDrain(trace.NewWriter(link)))
	})
}

// heartbeat records a liveness event on every tick, carrying the halt count
// so idle passes are visible on the trace without one event per halt
type heartbeat struct {
	ticker *core.Ticker
	beats  uint32
}

func newHeartbeat() *heartbeat {
	return &heartbeat{ticker: driver.Every(core.TicksFromMillis(heartbeatMillis))}
}

func (h *heartbeat) Poll(w *core.Waker) core.Status {
	for h.ticker.Next(w) {
		h.beats++
		core.RecordTiming(core.EvtHeartbeat, driver.Now(), uint64(h.beats), executor.Stats().Halts)
	}
	return core.Pending
}

// traceDrain periodically writes undrained timing events as trace frames
type traceDrain struct {
	ticker *core.Ticker
	out    *trace.Writer
}

func newTraceDrain(out *trace.Writer) *traceDrain {
	return &traceDrain{ticker: driver.Every(core.TicksFromMillis(drainMillis)), out: out}
}

func (d *traceDrain) Poll(w *core.Waker) core.Status {
	for d.ticker.Next(w) {
		core.DrainTiming(func(evt core.TimingEvent) {
			_ = d.out.WriteEvent(evt)
		})
	}
	return core.Pending
}
