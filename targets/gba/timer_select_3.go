//go:build gameboyadvance && timer3

package main

import (
	"machine"

	"gbatime/core"
)

// Selected with -tags timer3
const (
	clockTimer = core.Timer3
	clockIRQ   = machine.IRQ_TIMER3
)
