package core

import "testing"

// fakePort is a hand-stepped 16-bit reload timer
type fakePort struct {
	divider Divider
	reload  uint16
	counter uint16
	irq     bool
	running bool
	line    IRQ

	// onRead runs once inside the next ReadCounter, before the value is taken
	onRead func()
}

func (p *fakePort) Configure(divider Divider, overflowAmount uint16) {
	p.divider = divider
	p.reload = uint16(CounterModulus - uint32(overflowAmount))
}

func (p *fakePort) EnableOverflowInterrupt(enable bool) {
	p.irq = enable
}

func (p *fakePort) Start(enable bool) {
	if enable && !p.running {
		p.counter = p.reload
	}
	p.running = enable
}

func (p *fakePort) ReadCounter() uint16 {
	if p.onRead != nil {
		hook := p.onRead
		p.onRead = nil
		hook()
	}
	return p.counter
}

// tick advances the counter n increments, raising the overflow interrupt on reload
func (p *fakePort) tick(n int) {
	for i := 0; i < n; i++ {
		if !p.running {
			return
		}
		if p.counter == 0xFFFF {
			p.counter = p.reload
			if p.irq {
				RaiseInterrupt(p.line)
			}
			continue
		}
		p.counter++
	}
}

// newTestDriver returns a started driver on Timer2 with the overflow
// interrupt routed to OnOverflow.
func newTestDriver(t *testing.T, overflowAmount uint16) (*TimeDriver, *fakePort) {
	t.Helper()

	ResetInterrupts()
	ClearTimingRing()
	t.Cleanup(ResetInterrupts)

	port := &fakePort{line: IRQTimer2}
	driver, err := NewTimeDriver(port, TimerConfig{Timer: Timer2, OverflowAmount: overflowAmount})
	if err != nil {
		t.Fatalf("NewTimeDriver failed: %v", err)
	}
	SetInterruptHandler(IRQTimer2, driver.OnOverflow)
	driver.Start()
	return driver, port
}

// countingHandle counts how often it was woken
type countingHandle struct {
	wakes int
}

func (h *countingHandle) Wake() {
	h.wakes++
}
