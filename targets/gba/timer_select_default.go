//go:build gameboyadvance && !timer0 && !timer1 && !timer3

package main

import (
	"machine"

	"gbatime/core"
)

// Timer2 unless a timerN build tag picks another. Two tags at once define
// clockTimer twice and fail to build.
const (
	clockTimer = core.Timer2
	clockIRQ   = machine.IRQ_TIMER2
)
