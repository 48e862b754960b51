//go:build gameboyadvance && timer1

package main

import (
	"machine"

	"gbatime/core"
)

// Selected with -tags timer1
const (
	clockTimer = core.Timer1
	clockIRQ   = machine.IRQ_TIMER1
)
