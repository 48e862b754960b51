//go:build gameboyadvance

package main

import (
	"runtime/volatile"
	"unsafe"

	"gbatime/core"
)

// GBA timer peripheral memory map. Each timer has a 16-bit counter/reload
// register followed by a 16-bit control register.
const (
	timerBase   = 0x04000100
	timerStride = 4

	timerCntIRQ   = 1 << 6 // overflow interrupt request
	timerCntStart = 1 << 7
	timerCntScale = 0x3 // prescaler selection
)

// gbaTimer implements core.TimerPort on TMxCNT_L / TMxCNT_H.
// Writes to the counter register set the reload value; reads return the
// live count.
type gbaTimer struct {
	counter *volatile.Register16
	control *volatile.Register16
}

func newTimer(index int) *gbaTimer {
	base := uintptr(timerBase + index*timerStride)
	return &gbaTimer{
		counter: (*volatile.Register16)(unsafe.Pointer(base)),
		control: (*volatile.Register16)(unsafe.Pointer(base + 2)),
	}
}

func (t *gbaTimer) Configure(divider core.Divider, overflowAmount uint16) {
	t.control.ClearBits(timerCntStart)
	t.counter.Set(uint16(core.CounterModulus - uint32(overflowAmount)))
	t.control.ReplaceBits(uint16(divider), timerCntScale, 0)
}

func (t *gbaTimer) EnableOverflowInterrupt(enable bool) {
	if enable {
		t.control.SetBits(timerCntIRQ)
	} else {
		t.control.ClearBits(timerCntIRQ)
	}
}

// Start sets the start bit; the counter loads the reload value on a 0 to 1 transition
func (t *gbaTimer) Start(enable bool) {
	if enable {
		t.control.SetBits(timerCntStart)
	} else {
		t.control.ClearBits(timerCntStart)
	}
}

func (t *gbaTimer) ReadCounter() uint16 {
	return t.counter.Get()
}
