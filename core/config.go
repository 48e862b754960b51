package core

import "errors"

// TimerNumber selects which of the four hardware timers drives the clock.
// Timer0 and Timer1 are usually taken by the sound mixer, so Timer2 is the default.
type TimerNumber uint8

const (
	TimerNone TimerNumber = iota // not selected
	Timer0
	Timer1
	Timer2
	Timer3

	TimerInvalid // out of range index
)

// DefaultOverflowAmount gives ~1ms between overflow interrupts at 65.536kHz
const DefaultOverflowAmount = 64

var (
	ErrTimerNotSelected = errors.New("no timer selected for the time driver")
	ErrInvalidTimer     = errors.New("timer number out of range")
	ErrOverflowAmount   = errors.New("overflow amount must be non-zero")
)

// TimerFromIndex maps a hardware timer index (0-3) to a TimerNumber.
// Anything else maps to TimerInvalid, which Validate rejects.
func TimerFromIndex(index int) TimerNumber {
	if index < 0 || index > 3 {
		return TimerInvalid
	}
	return TimerNumber(index + 1)
}

// Index returns the hardware timer index (0-3), or -1 if not selected
func (t TimerNumber) Index() int {
	if t == TimerNone || t > Timer3 {
		return -1
	}
	return int(t) - 1
}

// IRQ returns the overflow interrupt line of the timer
func (t TimerNumber) IRQ() IRQ {
	return IRQTimer0 + IRQ(t.Index())
}

func (t TimerNumber) String() string {
	switch t {
	case Timer0:
		return "timer0"
	case Timer1:
		return "timer1"
	case Timer2:
		return "timer2"
	case Timer3:
		return "timer3"
	case TimerNone:
		return "none"
	}
	return "invalid"
}

// TimerConfig configures the time driver.
//
// OverflowAmount trades wake resolution against interrupt load. At 65.536kHz:
// 4=~61us, 16=~244us, 64=~1ms (default), 256=~4ms, 1024=~16ms.
type TimerConfig struct {
	Timer          TimerNumber
	OverflowAmount uint16
}

// DefaultTimerConfig returns Timer2 with a ~1ms overflow period
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Timer:          Timer2,
		OverflowAmount: DefaultOverflowAmount,
	}
}

// Validate rejects configurations the driver cannot run with
func (c TimerConfig) Validate() error {
	if c.Timer == TimerNone {
		return ErrTimerNotSelected
	}
	if c.Timer > Timer3 {
		return ErrInvalidTimer
	}
	if c.OverflowAmount == 0 {
		return ErrOverflowAmount
	}
	return nil
}

// Resolution returns the overflow period in microseconds, which is also the
// worst-case lateness of a wake-up.
func (c TimerConfig) Resolution() uint32 {
	return uint32(uint64(c.OverflowAmount) * 1000000 / HardwareTickHz)
}
