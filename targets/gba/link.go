//go:build gameboyadvance

package main

import (
	"runtime/volatile"
	"unsafe"
)

// Link port registers used in UART mode
const (
	regSIOCNT   = 0x04000128
	regSIODATA8 = 0x0400012A
	regRCNT     = 0x04000134

	sioBaud115200 = 3
	sioCTS        = 1 << 2 // CTS flow control off when clear
	sioSendFull   = 1 << 4
	sioLength8    = 1 << 7
	sioFIFO       = 1 << 8
	sioSendEnable = 1 << 10
	sioModeUART   = 3 << 12
)

var (
	sioCnt   = (*volatile.Register16)(unsafe.Pointer(uintptr(regSIOCNT)))
	sioData8 = (*volatile.Register8)(unsafe.Pointer(uintptr(regSIODATA8)))
	rcnt     = (*volatile.Register16)(unsafe.Pointer(uintptr(regRCNT)))
)

// uart writes bytes out of the link port at 115200 8N1. It implements io.Writer.
type uart struct{}

func newUART() uart {
	rcnt.Set(0)
	sioCnt.Set(sioBaud115200 | sioLength8 | sioFIFO | sioSendEnable | sioModeUART)
	return uart{}
}

func (uart) Write(p []byte) (int, error) {
	for _, b := range p {
		for sioCnt.HasBits(sioSendFull) {
		}
		sioData8.Set(b)
	}
	return len(p), nil
}

// WriteString lets the uart back core.DebugWriter
func (u uart) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		for sioCnt.HasBits(sioSendFull) {
		}
		sioData8.Set(s[i])
	}
	u.Write([]byte{'\r', '\n'})
}
