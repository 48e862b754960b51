//go:build gameboyadvance && timer0

package main

import (
	"machine"

	"gbatime/core"
)

// Selected with -tags timer0
const (
	clockTimer = core.Timer0
	clockIRQ   = machine.IRQ_TIMER0
)
