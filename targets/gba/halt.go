//go:build gameboyadvance

package main

import (
	"runtime/volatile"
	"unsafe"
)

const (
	regHALTCNT = 0x04000301
	regIME     = 0x04000208
)

var (
	haltCnt = (*volatile.Register8)(unsafe.Pointer(uintptr(regHALTCNT)))
	ime     = (*volatile.Register16)(unsafe.Pointer(uintptr(regIME)))
)

// halter enters Halt mode: the CPU stops until an enabled interrupt is
// requested while the timers and display keep running. An interrupt
// already requested ends it at once.
type halter struct{}

func (halter) Halt() {
	haltCnt.Set(0)
}

// enableInterrupts sets the master enable; the vector in the runtime
// dispatches to handlers registered with interrupt.New.
func enableInterrupts() {
	ime.Set(1)
}
