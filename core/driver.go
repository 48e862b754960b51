package core

// TimeDriver is the one clock of the system: a hardware timer, the Clock
// extending it, and the AlarmScheduler waking tasks from it.
//
// Construct it once at startup and hand it to the Executor. Target code must
// route the selected timer's overflow interrupt to OnOverflow.
type TimeDriver struct {
	cfg     TimerConfig
	port    TimerPort
	clock   *Clock
	alarm   *AlarmScheduler
	started bool
}

// NewTimeDriver creates the driver for port. The timer is not touched until Start.
func NewTimeDriver(port TimerPort, cfg TimerConfig) (*TimeDriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &TimeDriver{
		cfg:   cfg,
		port:  port,
		clock: NewClock(port, cfg.OverflowAmount),
	}
	d.alarm = NewAlarmScheduler(d.Now)
	return d, nil
}

// Start programs and starts the hardware timer and captures the counter
// value time is measured from until the first overflow. Calling it again
// has no effect.
func (d *TimeDriver) Start() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if d.started {
		return
	}

	d.port.Configure(ClockDivider, d.cfg.OverflowAmount)
	d.port.EnableOverflowInterrupt(true)
	d.port.Start(true)
	d.clock.capture()
	d.started = true

	RecordTiming(EvtDriverStart, 0, uint64(d.clock.initialCounter), uint32(d.cfg.OverflowAmount))
	DebugPrintln("[CLOCK] started " + d.cfg.Timer.String() +
		" overflow=" + utoa(uint64(d.cfg.OverflowAmount)) +
		" initial=" + utoa(uint64(d.clock.initialCounter)))
}

// Started reports whether Start has run
func (d *TimeDriver) Started() bool {
	return d.started
}

// OnOverflow is the overflow interrupt handler and the only writer of the
// period counter. It counts the period, then re-evaluates pending wakes with
// the overflow interrupt held off. It never blocks.
func (d *TimeDriver) OnOverflow() {
	d.clock.advance()

	state := disableInterrupts()
	d.alarm.OnPeriodicCheck(d.Now())
	restoreInterrupts(state)
}

// Now returns logical ticks (TickHz) since Start
func (d *TimeDriver) Now() uint64 {
	return d.clock.Now()
}

// RequestWake asks for h to be woken once Now reaches deadline
func (d *TimeDriver) RequestWake(deadline uint64, h WakeHandle) {
	d.alarm.RequestWake(deadline, h)
}

// Cancel drops a pending wake request for h
func (d *TimeDriver) Cancel(h WakeHandle) bool {
	return d.alarm.Cancel(h)
}

// NextDeadline returns the next deadline the scheduler is waiting for
func (d *TimeDriver) NextDeadline() uint64 {
	return d.alarm.NextDeadline()
}

// Clock returns the driver's clock
func (d *TimeDriver) Clock() *Clock {
	return d.clock
}

// Alarms returns the driver's alarm scheduler
func (d *TimeDriver) Alarms() *AlarmScheduler {
	return d.alarm
}

// Config returns the configuration the driver was built with
func (d *TimeDriver) Config() TimerConfig {
	return d.cfg
}

// At returns a Delay ending at the absolute logical time deadline
func (d *TimeDriver) At(deadline uint64) *Delay {
	return &Delay{driver: d, deadline: deadline}
}

// After returns a Delay ending ticks from now
func (d *TimeDriver) After(ticks uint64) *Delay {
	return d.At(d.Now() + ticks)
}

// Every returns a Ticker firing every period ticks, first one period from now
func (d *TimeDriver) Every(period uint64) *Ticker {
	t := &Ticker{driver: d, period: period}
	t.Reset()
	return t
}
